package core

import (
	"time"

	"github.com/glowrec/glowrec/pkg/utils"
)

// RecommendContext 承载用户/场景/实时信息，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	UserID string
	Scene  string

	// History 是用户的交互历史集合，由入口处统一装载，
	// 避免每个 Node 重复查询事件存储。
	History *History

	// Now 是请求时刻，时间窗口类信号（趋势、近期点赞）以此为基准。
	// 零值时各 Node 使用 time.Now()。
	Now time.Time

	// Labels 是用户级标签，可驱动整个 Pipeline 行为。
	Labels map[string]utils.Label

	// Params 请求级上下文参数。
	Params map[string]any
}

// At 返回请求基准时间，零值时回退到当前时间。
func (rctx *RecommendContext) At() time.Time {
	if rctx == nil || rctx.Now.IsZero() {
		return time.Now()
	}
	return rctx.Now
}

// Seen 返回商品是否在用户历史中；History 未装载时视为未见过。
func (rctx *RecommendContext) Seen(productID string) bool {
	if rctx == nil || rctx.History == nil {
		return false
	}
	return rctx.History.Seen(productID)
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
