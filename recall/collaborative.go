package recall

import (
	"context"
	"sort"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/feature"
	"github.com/glowrec/glowrec/interaction"
)

// ScoredUser 是 (用户, 相似度) 对。
type ScoredUser struct {
	UserID     string  `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// UserCF 是基于用户的协同过滤召回源（User-based CF）。
//
// 核心思想：“兴趣相似的用户，喜欢相似的商品”
//
// 算法流程：
//  1. 用户 → 交互向量（点赞/购买/评论折算分数）
//  2. 在共同商品子空间上计算余弦相似度（共同商品 < MinCommonProducts 的直接跳过）
//  3. 取 TopK 相似用户（相似度 > SimilarityFloor）
//  4. 推荐这些用户交互过、但目标用户未见过的商品
type UserCF struct {
	Interactions *interaction.Extractor

	// TopKSimilarUsers 聚合推荐时考虑的相似用户数，<=0 时取 15
	TopKSimilarUsers int

	// TopK 最终返回的商品数，<=0 时取 15
	TopK int

	// MinCommonProducts 计算相似度所需的最小共同商品数，<=0 时取 2
	MinCommonProducts int

	// SimilarityFloor 相似用户的最低相似度，0 值时取 0.3；
	// 设为负值可关闭下限（余弦相似度非负）
	SimilarityFloor float64
}

func (r *UserCF) Name() string { return "recall.ucf" }

func (r *UserCF) minCommon() int {
	if r.MinCommonProducts <= 0 {
		return 2
	}
	return r.MinCommonProducts
}

func (r *UserCF) floor() float64 {
	if r.SimilarityFloor == 0 {
		return 0.3
	}
	return r.SimilarityFloor
}

// SimilarUsers 返回与目标用户口味最相似的 topN 个用户（相似度降序）。
// 目标用户无交互时返回空列表。
// 相似度只在双方共同交互的商品子空间上计算。
func (r *UserCF) SimilarUsers(ctx context.Context, userID string, topN int) ([]ScoredUser, error) {
	if r.Interactions == nil || userID == "" {
		return nil, nil
	}
	all, err := r.Interactions.AllInteractions(ctx)
	if err != nil {
		return nil, err
	}
	target, ok := all[userID]
	if !ok || len(target) == 0 {
		return nil, nil
	}

	otherIDs := make([]string, 0, len(all))
	for uid := range all {
		if uid != userID {
			otherIDs = append(otherIDs, uid)
		}
	}
	sort.Strings(otherIDs)

	minCommon := r.minCommon()
	floor := r.floor()

	out := make([]ScoredUser, 0)
	for _, uid := range otherIDs {
		other := all[uid]
		if len(other) == 0 {
			continue
		}

		common := make([]string, 0)
		for pid := range target {
			if _, ok := other[pid]; ok {
				common = append(common, pid)
			}
		}
		if len(common) < minCommon {
			continue
		}
		sort.Strings(common)

		targetVec := make([]float64, len(common))
		otherVec := make([]float64, len(common))
		for i, pid := range common {
			targetVec[i] = target[pid]
			otherVec[i] = other[pid]
		}

		sim := feature.Cosine(targetVec, otherVec)
		if sim > floor {
			out = append(out, ScoredUser{UserID: uid, Similarity: sim})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Similarity > out[j].Similarity
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// Recommendations 聚合相似用户的交互：score += 相似度 × 对方交互分数；
// 目标用户的历史商品被排除。
func (r *UserCF) Recommendations(ctx context.Context, userID string, topN int) ([]Scored, error) {
	return r.recommendations(ctx, userID, nil, topN)
}

func (r *UserCF) recommendations(ctx context.Context, userID string, history *core.History, topN int) ([]Scored, error) {
	if r.Interactions == nil {
		return nil, nil
	}
	topSimilar := r.TopKSimilarUsers
	if topSimilar <= 0 {
		topSimilar = 15
	}
	similar, err := r.SimilarUsers(ctx, userID, topSimilar)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return nil, nil
	}

	if history == nil {
		h, err := r.Interactions.History(ctx, userID)
		if err != nil {
			return nil, err
		}
		history = &h
	}

	all, err := r.Interactions.AllInteractions(ctx)
	if err != nil {
		return nil, err
	}

	agg := newAccumulator()
	for _, su := range similar {
		products := all[su.UserID]
		pids := make([]string, 0, len(products))
		for pid := range products {
			pids = append(pids, pid)
		}
		sort.Strings(pids)
		for _, pid := range pids {
			if history.Seen(pid) {
				continue
			}
			agg.add(pid, su.Similarity*products[pid])
		}
	}
	return agg.ranked(topN), nil
}

// Recall 实现 Source 接口。
func (r *UserCF) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
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
	return toItems(scored, core.TagCollaborative), nil
}

var _ Source = (*UserCF)(nil)
