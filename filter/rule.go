package filter

import (
	"context"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/pkg/dsl"
)

// RuleFilter 是基于 CEL 表达式的业务规则过滤器。
// 表达式返回 true 时商品被过滤，可用于运营侧的临时排除规则，例如：
//
//	label.recall_source == "trending" && item.score < 0.5
//	item.meta.category == "cleanser"
//
// 表达式求值失败时放行该商品（规则失效不应打挂推荐链路）。
type RuleFilter struct {
	// Expr 是 CEL 排除规则表达式；为空时不过滤任何商品
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil || rctx == nil {
		return false, nil
	}
	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, nil
	}
	return matched, nil
}

var _ Filter = (*RuleFilter)(nil)
