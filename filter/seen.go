package filter

import (
	"context"

	"github.com/glowrec/glowrec/core"
)

// SeenFilter 过滤掉用户已经交互过的商品（点赞/购买/评论任意一种）。
//
// 各召回源内部已排除历史商品，此过滤器作为链路级兜底：
// 趋势类信号不区分用户，只有在这里统一过滤才能保证
// “个性化结果永不包含历史商品”的约束对所有信号成立。
type SeenFilter struct{}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil || rctx == nil {
		return false, nil
	}
	return rctx.Seen(item.ID), nil
}

var _ Filter = (*SeenFilter)(nil)
