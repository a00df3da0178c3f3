package recall

import (
	"context"

	"github.com/glowrec/glowrec/core"
)

// TrendingBoard 把趋势榜单预聚合到 KeyValueStore 的有序集合：
// 写路径由后台任务定期 Publish 原始趋势分，读路径用 ZRange 直接取 TopN，
// 避免每次请求对事件日志做全量窗口扫描。
type TrendingBoard struct {
	Store core.KeyValueStore

	// Key 有序集合的 key，空值时取 "trending_board"
	Key string
}

func (b *TrendingBoard) key() string {
	if b.Key == "" {
		return "trending_board"
	}
	return b.Key
}

// Publish 把一批 (商品, 趋势分) 写入榜单，同名成员的旧分数被覆盖。
func (b *TrendingBoard) Publish(ctx context.Context, entries []Scored) error {
	if b.Store == nil {
		return core.ErrStoreNotSupported
	}
	for _, e := range entries {
		if err := b.Store.ZAdd(ctx, b.key(), e.Score, e.ProductID); err != nil {
			return err
		}
	}
	return nil
}

// Top 返回榜单前 limit 个商品（分数降序）；limit <= 0 返回全部。
// 读取期间被并发删除的成员直接跳过。
func (b *TrendingBoard) Top(ctx context.Context, limit int) ([]Scored, error) {
	if b.Store == nil {
		return nil, nil
	}
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	members, err := b.Store.ZRange(ctx, b.key(), 0, stop)
	if err != nil {
		return nil, err
	}

	out := make([]Scored, 0, len(members))
	for _, member := range members {
		score, err := b.Store.ZScore(ctx, b.key(), member)
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, Scored{ProductID: member, Score: score})
	}
	return out, nil
}
