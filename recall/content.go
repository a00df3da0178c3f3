package recall

import (
	"context"
	"sort"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/feature"
	"github.com/glowrec/glowrec/interaction"
)

// ContentRecall 是基于内容的召回源：
// “用户交互过某些商品，推荐特征文本相似的其他商品”。
//
// 相似度在 feature.Service 持有的 TF-IDF 向量空间上按余弦计算；
// 向量空间懒构建、显式重建，目录变更后的短暂过期是可接受的。
type ContentRecall struct {
	Vectors      *feature.Service
	Interactions *interaction.Extractor

	// TopK 是 Recall 输出上限，<=0 时取 15
	TopK int

	// SimilarPerSeed 是每个种子商品扩展的相似商品数，<=0 时取 15
	SimilarPerSeed int

	// SimilarityFloor 是相似商品的最低相似度，<=floor 的结果被丢弃。
	// 0 值时取 0.1（固定相关性下限，即使结果数不足 topN 也不放宽）；
	// 设为负值可关闭下限（余弦相似度非负，任何结果都会保留）。
	SimilarityFloor float64
}

func (r *ContentRecall) Name() string { return "recall.content" }

func (r *ContentRecall) floor() float64 {
	if r.SimilarityFloor == 0 {
		return 0.1
	}
	return r.SimilarityFloor
}

// SimilarProducts 返回与给定商品最相似的 topN 个商品（降序）。
// 未知商品或空向量空间返回空列表，不报错；自身永不出现在结果中；
// 相似度 <= 下限的结果被丢弃，即使因此结果数 < topN。
func (r *ContentRecall) SimilarProducts(ctx context.Context, productID string, topN int) ([]Scored, error) {
	if r.Vectors == nil {
		return nil, nil
	}
	space, err := r.Vectors.GetOrBuild(ctx)
	if err != nil {
		return nil, err
	}
	if space.Len() == 0 {
		return nil, nil
	}
	row, ok := space.Row(productID)
	if !ok {
		return nil, nil
	}

	type cand struct {
		idx int
		sim float64
	}
	cands := make([]cand, 0, space.Len()-1)
	for i, other := range space.Matrix {
		if space.ProductIDs[i] == productID {
			continue
		}
		cands = append(cands, cand{idx: i, sim: feature.Cosine(row, other)})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].sim > cands[j].sim
	})
	if topN > 0 && len(cands) > topN {
		cands = cands[:topN]
	}

	floor := r.floor()
	out := make([]Scored, 0, len(cands))
	for _, c := range cands {
		if c.sim <= floor {
			continue
		}
		out = append(out, Scored{ProductID: space.ProductIDs[c.idx], Score: c.sim})
	}
	return out, nil
}

// RecommendationsForUser 基于用户的交互历史聚合相似商品：
// 每个种子商品贡献 相似度 × 交互强度，跨种子累加；历史商品被排除。
// 空历史返回空列表（冷启动由上层处理）。
func (r *ContentRecall) RecommendationsForUser(ctx context.Context, userID string, topN int) ([]Scored, error) {
	return r.recommendations(ctx, userID, nil, topN)
}

func (r *ContentRecall) recommendations(ctx context.Context, userID string, history *core.History, topN int) ([]Scored, error) {
	if r.Interactions == nil {
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

	scores, err := r.Interactions.UserInteractions(ctx, userID)
	if err != nil {
		return nil, err
	}

	perSeed := r.SimilarPerSeed
	if perSeed <= 0 {
		perSeed = 15
	}

	agg := newAccumulator()
	for _, seed := range sortedKeys(history.All) {
		weight, ok := scores[seed]
		if !ok {
			weight = 1.0
		}
		similar, err := r.SimilarProducts(ctx, seed, perSeed)
		if err != nil {
			return nil, err
		}
		for _, s := range similar {
			if history.Seen(s.ProductID) {
				continue
			}
			agg.add(s.ProductID, s.Score*weight)
		}
	}
	return agg.ranked(topN), nil
}

// Recall 实现 Source 接口。
func (r *ContentRecall) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 15
	}
	scored, err := r.recommendations(ctx, rctx.UserID, rctx.History, topK)
	if err != nil {
		return nil, err
	}
	return toItems(scored, core.TagContentBased), nil
}

var _ Source = (*ContentRecall)(nil)
