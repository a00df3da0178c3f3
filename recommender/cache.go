package recommender

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/glowrec/glowrec/core"
)

// 缓存 key 的操作前缀。key 格式统一为 {operation}_{subject}_limit_{n}，
// 例如 recommendations_user_42_limit_20。
const (
	opPersonalized    = "recommendations_user"
	opSimilarProducts = "similar_products"
	opFriendsTrending = "friends_trending_user"
	opColdStart       = "recommendations_cold_start"
)

// cacheableLimit 返回 limit 是否在配置的枚举内。
// 枚举外的 limit 每次全量重算、不落缓存，失效路径因此只需按枚举展开 key。
func cacheableLimit(enum []int, limit int) bool {
	for _, n := range enum {
		if n == limit {
			return true
		}
	}
	return false
}

func cacheKey(op, subject string, limit int) string {
	if subject == "" {
		return fmt.Sprintf("%s_limit_%d", op, limit)
	}
	return fmt.Sprintf("%s_%s_limit_%d", op, subject, limit)
}

// resultCache 把 core.Store 包装成 JSON 结果缓存。
// 缓存是纯加速层：任何读写错误都按 miss 处理，绝不影响推荐计算。
type resultCache struct {
	store core.Store
}

// get 命中时反序列化到 v 并返回 true；miss、反序列化失败、后端错误都返回 false。
func (c *resultCache) get(ctx context.Context, key string, v any) bool {
	if c == nil || c.store == nil {
		return false
	}
	data, err := c.store.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false
	}
	return true
}

// put 序列化并写入缓存；失败静默忽略。
func (c *resultCache) put(ctx context.Context, key string, v any, ttl int) {
	if c == nil || c.store == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.store.Set(ctx, key, data, ttl)
}

// delete 删除单个 key；失败静默忽略。
func (c *resultCache) delete(ctx context.Context, key string) {
	if c == nil || c.store == nil {
		return
	}
	_ = c.store.Delete(ctx, key)
}

// InvalidateUser 删除用户的个性化推荐与好友趋势缓存。
// 按配置的 limit 枚举展开全部 key；在用户产生新交互/关注变更后调用。
func (e *Engine) InvalidateUser(ctx context.Context, userID string) {
	for _, limit := range e.cfg.Limits.personalized() {
		e.cache.delete(ctx, cacheKey(opPersonalized, userID, limit))
	}
	for _, limit := range e.cfg.Limits.friendsTrending() {
		e.cache.delete(ctx, cacheKey(opFriendsTrending, userID, limit))
	}
}

// InvalidateProduct 删除商品的相似商品缓存（商品资料变更后调用）。
func (e *Engine) InvalidateProduct(ctx context.Context, productID string) {
	for _, limit := range e.cfg.Limits.similar() {
		e.cache.delete(ctx, cacheKey(opSimilarProducts, productID, limit))
	}
}

// InvalidateColdStart 删除冷启动榜单缓存（趋势数据批量回补后调用）。
func (e *Engine) InvalidateColdStart(ctx context.Context) {
	for _, limit := range e.cfg.Limits.warm() {
		e.cache.delete(ctx, cacheKey(opColdStart, "", limit))
	}
}

// InvalidateAll 清空整个缓存后端（数据批量回灌、权重调整后的全量失效）。
// 失败静默忽略，与单 key 删除的 best-effort 语义一致。
func (e *Engine) InvalidateAll(ctx context.Context) {
	if e.cache == nil || e.cache.store == nil {
		return
	}
	_ = e.cache.store.Clear(ctx)
}
