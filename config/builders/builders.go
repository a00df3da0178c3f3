// Package builders 在 init 中注册内置 Node 的配置构建器。
// 召回源需要运行时的数据依赖（事件/订单/社交/趋势存储），
// 无法单从配置构建，由 recommender.Engine 组装；配置驱动覆盖其余节点。
package builders

import (
	"fmt"
	"time"

	"github.com/glowrec/glowrec/config"
	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/filter"
	"github.com/glowrec/glowrec/pipeline"
	"github.com/glowrec/glowrec/pkg/conv"
	"github.com/glowrec/glowrec/rank"
	"github.com/glowrec/glowrec/recall"
	"github.com/glowrec/glowrec/rerank"
)

func init() {
	config.Register("recall.fanout", BuildFanoutNode)
	config.Register("filter", BuildFilterNode)
	config.Register("rank.fusion", BuildFusionNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildFanoutNode 从配置构建 Fanout 的执行参数（timeout/max_concurrent）。
// Sources 需要数据存储依赖，构建后由调用方注入。
func BuildFanoutNode(cfg map[string]interface{}) (pipeline.Node, error) {
	fanout := &recall.Fanout{
		MaxConcurrent: conv.ConfigGet(cfg, "max_concurrent", 0),
	}
	if sec := conv.ConfigGetInt64(cfg, "timeout", 0); sec > 0 {
		fanout.Timeout = time.Duration(sec) * time.Second
	}
	return fanout, nil
}

func BuildFilterNode(cfg map[string]interface{}) (pipeline.Node, error) {
	filtersConfig, ok := cfg["filters"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("filters not found or invalid")
	}

	filters := make([]filter.Filter, 0, len(filtersConfig))
	for _, fc := range filtersConfig {
		filterMap, ok := fc.(map[string]interface{})
		if !ok {
			continue
		}
		filterType := conv.ConfigGet(filterMap, "type", "")
		switch filterType {
		case "seen":
			filters = append(filters, &filter.SeenFilter{})
		case "rule":
			expr := conv.ConfigGet(filterMap, "expr", "")
			filters = append(filters, &filter.RuleFilter{Expr: expr})
		default:
			return nil, fmt.Errorf("unknown filter type: %s", filterType)
		}
	}

	return &filter.FilterNode{Filters: filters}, nil
}

func BuildFusionNode(cfg map[string]interface{}) (pipeline.Node, error) {
	node := &rank.WeightedFusion{}
	if raw, ok := cfg["weights"].(map[string]interface{}); ok {
		weights := make(map[core.SourceTag]float64, len(raw))
		for tag, w := range conv.MapToFloat64(raw) {
			weights[core.SourceTag(tag)] = w
		}
		node.Weights = weights
	}
	return node, nil
}

func BuildTopNNode(cfg map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: conv.ConfigGet(cfg, "n", 0),
	}, nil
}
