package recall

import (
	"context"
	"time"

	"github.com/glowrec/glowrec/core"
)

// TrendStore 是全站近期行为的只读接口，趋势召回用它做窗口计数。
type TrendStore interface {
	// LikesSince 返回 since 之后的全部点赞事件
	LikesSince(ctx context.Context, since time.Time) ([]core.Like, error)

	// OrdersSince 返回 since 之后创建的全部订单
	OrdersSince(ctx context.Context, since time.Time) ([]core.Order, error)

	// ReviewsSince 返回 since 之后的全部评论
	ReviewsSince(ctx context.Context, since time.Time) ([]core.Review, error)
}

// 趋势计数权重。
const (
	trendingLikeWeight = 1.0
	trendingBuyWeight  = 3.0
)

// Trending 是全站趋势召回源：统计时间窗口内的点赞/购买/评论热度。
//
// 作为 Source 使用时，输出的不是原始热度，而是位置衰减分：
// 第 i 名（共 n 个）的分数为 (n-i)/n × 10，供加权融合使用。
type Trending struct {
	Store TrendStore

	// Window 统计窗口，<=0 时取 7 天
	Window time.Duration

	// Limit 榜单长度，<=0 时取 10
	Limit int
}

func (r *Trending) Name() string { return "recall.trending" }

func (r *Trending) window() time.Duration {
	if r.Window <= 0 {
		return 7 * 24 * time.Hour
	}
	return r.Window
}

func (r *Trending) limit() int {
	if r.Limit <= 0 {
		return 10
	}
	return r.Limit
}

// TrendingProducts 返回窗口内热度最高的商品 ID（降序）。
func (r *Trending) TrendingProducts(ctx context.Context, now time.Time, window time.Duration, limit int) ([]string, error) {
	ranked, err := r.Scores(ctx, now, window, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(ranked))
	for i, s := range ranked {
		ids[i] = s.ProductID
	}
	return ids, nil
}

// Scores 返回窗口内的趋势榜单（原始热度分，降序）：
// 点赞 条数 × 1，购买（有效订单行）条数 × 3，评论 条数 × 平均评分。
// 预聚合（TrendingBoard.Publish）消费这里的原始分。
func (r *Trending) Scores(ctx context.Context, now time.Time, window time.Duration, limit int) ([]Scored, error) {
	if r.Store == nil {
		return nil, nil
	}
	if window <= 0 {
		window = r.window()
	}
	if limit <= 0 {
		limit = r.limit()
	}
	since := now.Add(-window)

	agg := newAccumulator()

	likes, err := r.Store.LikesSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		agg.add(l.ProductID, trendingLikeWeight)
	}

	orders, err := r.Store.OrdersSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if !o.Status.Qualifies() {
			continue
		}
		for _, line := range o.Lines {
			agg.add(line.ProductID, trendingBuyWeight)
		}
	}

	// 评论热度 = 条数 × 平均评分，等价于逐条累加 rating 的均摊
	reviews, err := r.Store.ReviewsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	reviewSum := make(map[string]float64)
	reviewCount := make(map[string]int)
	for _, rv := range reviews {
		reviewSum[rv.ProductID] += float64(rv.Rating)
		reviewCount[rv.ProductID]++
	}
	for _, pid := range sortedIntKeys(reviewCount) {
		avg := reviewSum[pid] / float64(reviewCount[pid])
		agg.add(pid, float64(reviewCount[pid])*avg)
	}

	return agg.ranked(limit), nil
}

// Recall 实现 Source 接口：榜单位置 i（共 n 个）给 (n-i)/n × 10 分。
func (r *Trending) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	ids, err := r.TrendingProducts(ctx, rctx.At(), r.window(), r.limit())
	if err != nil {
		return nil, err
	}
	n := len(ids)
	out := make([]*core.Item, 0, n)
	for i, id := range ids {
		it := core.NewItem(id)
		it.Score = float64(n-i) / float64(n) * 10
		it.TagSource(core.TagTrending, "recall")
		out = append(out, it)
	}
	return out, nil
}

var _ Source = (*Trending)(nil)
