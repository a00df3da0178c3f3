package recall

import (
	"context"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/interaction"
)

// OrderStore 是订单日志的只读接口，物品协同过滤用它构建共现计数。
type OrderStore interface {
	// AllOrders 返回全部订单（含所有状态，由调用方按状态过滤）
	AllOrders(ctx context.Context) ([]core.Order, error)
}

// ItemCF 是基于物品的协同过滤召回源（Item-based CF）。
//
// 核心思想：“同一订单里一起出现的商品，相互相关”
//
// 算法流程：
//  1. 遍历有效订单，对订单内每对不同商品做对称共现计数
//  2. 对用户历史中的每个商品，取其共现商品并累加计数作为推荐分
//  3. 排除用户已有商品；分数就是整数计数，不做归一化
//
// 工程特征：
//   - 实时性：好（共现表可离线预计算）
//   - 可解释性：强（“买了 X 的人也买了 Y”）
type ItemCF struct {
	Orders       OrderStore
	Interactions *interaction.Extractor

	// TopK 最终返回的商品数，<=0 时取 10
	TopK int
}

func (r *ItemCF) Name() string { return "recall.icf" }

// cooccurrence 构建对称的商品共现计数表，只统计有效状态的订单。
// 同一订单内的重复商品行会重复计数，与订单日志的行级口径保持一致。
func (r *ItemCF) cooccurrence(ctx context.Context) (map[string]map[string]int, error) {
	orders, err := r.Orders.AllOrders(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]map[string]int)
	bump := func(a, b string) {
		if counts[a] == nil {
			counts[a] = make(map[string]int)
		}
		counts[a][b]++
	}
	for _, o := range orders {
		if !o.Status.Qualifies() {
			continue
		}
		for i := 0; i < len(o.Lines); i++ {
			for j := i + 1; j < len(o.Lines); j++ {
				a, b := o.Lines[i].ProductID, o.Lines[j].ProductID
				if a == b {
					continue
				}
				bump(a, b)
				bump(b, a)
			}
		}
	}
	return counts, nil
}

// Recommendations 返回与用户历史商品共同购买频率最高的商品。
func (r *ItemCF) Recommendations(ctx context.Context, userID string, topN int) ([]Scored, error) {
	return r.recommendations(ctx, userID, nil, topN)
}

func (r *ItemCF) recommendations(ctx context.Context, userID string, history *core.History, topN int) ([]Scored, error) {
	if r.Orders == nil || r.Interactions == nil {
		return nil, nil
	}
	if history == nil {
		h, err := r.Interactions.History(ctx, userID)
		if err != nil {
			return nil, err
		}
		history = &h
	}
	if history.Empty() {
		return nil, nil
	}

	counts, err := r.cooccurrence(ctx)
	if err != nil {
		return nil, err
	}

	agg := newAccumulator()
	for _, seed := range sortedKeys(history.All) {
		related, ok := counts[seed]
		if !ok {
			continue
		}
		for _, pid := range sortedIntKeys(related) {
			if history.Seen(pid) {
				continue
			}
			agg.add(pid, float64(related[pid]))
		}
	}
	return agg.ranked(topN), nil
}

// Recall 实现 Source 接口。
func (r *ItemCF) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 10
	}
	scored, err := r.recommendations(ctx, rctx.UserID, rctx.History, topK)
	if err != nil {
		return nil, err
	}
	return toItems(scored, core.TagItemBasedCF), nil
}

var _ Source = (*ItemCF)(nil)
