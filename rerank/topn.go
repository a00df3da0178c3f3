package rerank

import (
	"context"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在融合排序后截取前 N 个商品。
//
// 使用场景：
//   - 融合后只返回 Top 10/20/50 个结果
//   - 控制推荐结果数量，提升性能
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &recall.Fanout{...},       // 多路召回
//	        &rank.WeightedFusion{},    // 加权融合
//	        &rerank.TopNNode{N: 20},   // 截取 Top 20
//	    },
//	}
type TopNNode struct {
	// N 要保留的商品数量（Top N）
	// 如果 N <= 0，则返回所有商品（不截断）
	// 如果 N > len(items)，则返回所有商品
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.N <= 0 {
		return items, nil
	}

	if len(items) <= n.N {
		return items, nil
	}

	return items[:n.N], nil
}
