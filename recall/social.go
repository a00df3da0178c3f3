package recall

import (
	"context"
	"sort"
	"time"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/interaction"
)

// SocialStore 是社交图与好友近期行为的只读接口。
// 关注关系是单向边（follower → following），无自环、不要求互相关注。
type SocialStore interface {
	// Friends 返回用户关注的用户 ID 列表
	Friends(ctx context.Context, userID string) ([]string, error)

	// LikesByUsersSince 返回一批用户在 since 之后的点赞事件
	LikesByUsersSince(ctx context.Context, userIDs []string, since time.Time) ([]core.Like, error)

	// OrdersByUsersSince 返回一批用户在 since 之后创建的订单
	OrdersByUsersSince(ctx context.Context, userIDs []string, since time.Time) ([]core.Order, error)
}

// 社交信号的权重与时间窗口。
const (
	// friendScoreDiscount 好友交互分数折扣（略低于用户自身偏好）
	friendScoreDiscount = 0.7

	// recentLikeBoost 近期好友点赞的额外加成（按条数叠加在折扣分之上）
	recentLikeBoost = 0.3

	// recentLikeWindow 近期点赞加成的时间窗口
	recentLikeWindow = 30 * 24 * time.Hour

	// friendsTrendingWindow 好友趋势榜的时间窗口
	friendsTrendingWindow = 7 * 24 * time.Hour

	// friendsTrendingLikeWeight / friendsTrendingBuyWeight 好友趋势计数权重
	friendsTrendingLikeWeight = 2.0
	friendsTrendingBuyWeight  = 5.0
)

// SocialRecall 是社交传播召回源：把好友的交互按折扣折算为候选分数。
type SocialRecall struct {
	Social       SocialStore
	Interactions *interaction.Extractor

	// TopK 最终返回的商品数，<=0 时取 15
	TopK int
}

func (r *SocialRecall) Name() string { return "recall.social" }

// FriendsRecommendations 返回好友交互过的商品（交互分 × 0.7），
// 并对最近 30 天内好友点赞过的商品追加 条数 × 0.3 的新鲜度加成。
// 用户自己的历史被排除；无好友时返回空列表。
func (r *SocialRecall) FriendsRecommendations(ctx context.Context, userID string, topN int) ([]Scored, error) {
	return r.recommendations(ctx, userID, nil, time.Now(), topN)
}

func (r *SocialRecall) recommendations(ctx context.Context, userID string, history *core.History, now time.Time, topN int) ([]Scored, error) {
	if r.Social == nil || r.Interactions == nil || userID == "" {
		return nil, nil
	}
	friends, err := r.Social.Friends(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return nil, nil
	}

	if history == nil {
		h, err := r.Interactions.History(ctx, userID)
		if err != nil {
			return nil, err
		}
		history = &h
	}

	agg := newAccumulator()
	for _, friendID := range friends {
		scores, err := r.Interactions.UserInteractions(ctx, friendID)
		if err != nil {
			return nil, err
		}
		pids := make([]string, 0, len(scores))
		for pid := range scores {
			pids = append(pids, pid)
		}
		sort.Strings(pids)
		for _, pid := range pids {
			if history.Seen(pid) {
				continue
			}
			agg.add(pid, scores[pid]*friendScoreDiscount)
		}
	}

	// 新鲜度加成：近期好友点赞按条数叠加（不替换折扣分）
	recent, err := r.Social.LikesByUsersSince(ctx, friends, now.Add(-recentLikeWindow))
	if err != nil {
		return nil, err
	}
	for _, l := range recent {
		if history.Seen(l.ProductID) {
			continue
		}
		agg.add(l.ProductID, recentLikeBoost)
	}

	return agg.ranked(topN), nil
}

// TrendingAmongFriends 返回最近 7 天在好友圈中升温的商品：
// 好友点赞 条数 × 2，好友购买（有效订单行）条数 × 5；用户已有商品被排除。
func (r *SocialRecall) TrendingAmongFriends(ctx context.Context, userID string, topN int) ([]Scored, error) {
	return r.trendingAmongFriends(ctx, userID, nil, time.Now(), topN)
}

func (r *SocialRecall) trendingAmongFriends(ctx context.Context, userID string, history *core.History, now time.Time, topN int) ([]Scored, error) {
	if r.Social == nil || r.Interactions == nil || userID == "" {
		return nil, nil
	}
	friends, err := r.Social.Friends(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friends) == 0 {
		return nil, nil
	}

	if history == nil {
		h, err := r.Interactions.History(ctx, userID)
		if err != nil {
			return nil, err
		}
		history = &h
	}

	since := now.Add(-friendsTrendingWindow)
	agg := newAccumulator()

	likes, err := r.Social.LikesByUsersSince(ctx, friends, since)
	if err != nil {
		return nil, err
	}
	for _, l := range likes {
		if history.Seen(l.ProductID) {
			continue
		}
		agg.add(l.ProductID, friendsTrendingLikeWeight)
	}

	orders, err := r.Social.OrdersByUsersSince(ctx, friends, since)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if !o.Status.Qualifies() {
			continue
		}
		for _, line := range o.Lines {
			if history.Seen(line.ProductID) {
				continue
			}
			agg.add(line.ProductID, friendsTrendingBuyWeight)
		}
	}

	return agg.ranked(topN), nil
}

// Recall 实现 Source 接口（好友推荐信号）。
func (r *SocialRecall) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 15
	}
	scored, err := r.recommendations(ctx, rctx.UserID, rctx.History, rctx.At(), topK)
	if err != nil {
		return nil, err
	}
	return toItems(scored, core.TagSocial), nil
}

// FriendsTrendingSource 把好友趋势榜单独包装成 Source，
// 便于在 Pipeline 中作为独立信号使用。
type FriendsTrendingSource struct {
	Social *SocialRecall

	// TopK <=0 时取 15
	TopK int
}

func (r *FriendsTrendingSource) Name() string { return "recall.friends_trending" }

func (r *FriendsTrendingSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if r.Social == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 15
	}
	scored, err := r.Social.trendingAmongFriends(ctx, rctx.UserID, rctx.History, rctx.At(), topK)
	if err != nil {
		return nil, err
	}
	return toItems(scored, core.TagFriendsTrending), nil
}

var _ Source = (*SocialRecall)(nil)
var _ Source = (*FriendsTrendingSource)(nil)
