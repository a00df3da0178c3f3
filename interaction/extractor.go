// Package interaction 从原始行为事件（点赞/购买/评论）派生用户-商品交互分数。
//
// 交互权重（与线上历史口径一致）：
//   - 点赞：+1.0 / 条
//   - 购买：+3.0 / 订单行（confirmed/processing/shipped/delivered 才计入；
//     不乘 Quantity，见 extractor_test 中的行为钉子）
//   - 评论：+(rating/5)*2.0 / 条，同一商品多条评论重复累加
//
// 分数恒 ≥ 0；无交互的 (user, product) 对不存储，读取视为 0。
package interaction

import (
	"context"

	"github.com/glowrec/glowrec/core"
)

// 交互权重常量。
const (
	LikeWeight     = 1.0
	PurchaseWeight = 3.0
	ReviewWeight   = 2.0
)

// EventStore 是行为事件的只读存储接口，由外部数据层实现。
type EventStore interface {
	// AllUserIDs 返回全部用户 ID（批量作业用）
	AllUserIDs(ctx context.Context) ([]string, error)

	// UserLikes 返回用户的全部点赞事件
	UserLikes(ctx context.Context, userID string) ([]core.Like, error)

	// UserOrders 返回用户的全部订单（含所有状态，由调用方按状态过滤）
	UserOrders(ctx context.Context, userID string) ([]core.Order, error)

	// UserReviews 返回用户的全部评论
	UserReviews(ctx context.Context, userID string) ([]core.Review, error)
}

// Extractor 把行为事件折算成 map[productID]score 形式的交互向量。
type Extractor struct {
	Events EventStore
}

// UserInteractions 返回单个用户的交互向量。
// 未知用户或无事件时返回空 map，不报错（推荐是 best-effort 的）。
func (e *Extractor) UserInteractions(ctx context.Context, userID string) (map[string]float64, error) {
	scores := make(map[string]float64)
	if e.Events == nil || userID == "" {
		return scores, nil
	}

	likes, err := e.Events.UserLikes(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		scores[l.ProductID] += LikeWeight
	}

	orders, err := e.Events.UserOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if !o.Status.Qualifies() {
			continue
		}
		for _, line := range o.Lines {
			// 按订单行计权，不乘 Quantity
			scores[line.ProductID] += PurchaseWeight
		}
	}

	reviews, err := e.Events.UserReviews(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		scores[r.ProductID] += float64(r.Rating) / 5.0 * ReviewWeight
	}

	return scores, nil
}

// AllInteractions 返回全量用户的交互矩阵（map[userID]map[productID]score）。
// 代价与用户数成正比，只用于批量作业（协同过滤、缓存预热）。
// 无交互的用户不出现在结果中。
func (e *Extractor) AllInteractions(ctx context.Context) (map[string]map[string]float64, error) {
	out := make(map[string]map[string]float64)
	if e.Events == nil {
		return out, nil
	}

	userIDs, err := e.Events.AllUserIDs(ctx)
	if err != nil {
		return nil, err
	}
	for _, uid := range userIDs {
		scores, err := e.UserInteractions(ctx, uid)
		if err != nil {
			return nil, err
		}
		if len(scores) > 0 {
			out[uid] = scores
		}
	}
	return out, nil
}

// History 返回用户的完整交互历史集合。
// 不变式：All == Liked ∪ Purchased ∪ Reviewed。
func (e *Extractor) History(ctx context.Context, userID string) (core.History, error) {
	h := core.NewHistory()
	if e.Events == nil || userID == "" {
		return h, nil
	}

	likes, err := e.Events.UserLikes(ctx, userID)
	if err != nil {
		return h, err
	}
	for _, l := range likes {
		h.AddLiked(l.ProductID)
	}

	orders, err := e.Events.UserOrders(ctx, userID)
	if err != nil {
		return h, err
	}
	for _, o := range orders {
		if !o.Status.Qualifies() {
			continue
		}
		for _, line := range o.Lines {
			h.AddPurchased(line.ProductID)
		}
	}

	reviews, err := e.Events.UserReviews(ctx, userID)
	if err != nil {
		return h, err
	}
	for _, r := range reviews {
		h.AddReviewed(r.ProductID)
	}

	return h, nil
}
