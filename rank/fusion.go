// Package rank 实现多路召回信号的加权融合。
package rank

import (
	"context"
	"sort"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/pipeline"
)

// DefaultWeights 是各信号源的固定融合权重。
var DefaultWeights = map[core.SourceTag]float64{
	core.TagContentBased:  0.30,
	core.TagCollaborative: 0.20,
	core.TagItemBasedCF:   0.10,
	core.TagSocial:        0.25,
	core.TagTrending:      0.15,
}

// WeightedFusion 是线性加权融合 Node：
// 对 Fanout 输出的 union 候选，按来源标签施加权重并对同一商品跨来源求和。
//
// 输出保证：
//   - 每个商品只出现一次，Labels 合并保留全部来源标签
//   - 分数降序，稳定排序（并列时保留首次出现的先后次序）
type WeightedFusion struct {
	// Weights 来源权重表，nil 时使用 DefaultWeights。
	// 未配置权重的来源不参与融合（候选被丢弃）。
	Weights map[core.SourceTag]float64
}

func (n *WeightedFusion) Name() string        { return "rank.fusion" }
func (n *WeightedFusion) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *WeightedFusion) weights() map[core.SourceTag]float64 {
	if n.Weights == nil {
		return DefaultWeights
	}
	return n.Weights
}

func (n *WeightedFusion) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	weights := n.weights()
	merged := make(map[string]*core.Item, len(items))
	order := make([]string, 0, len(items))

	for _, it := range items {
		if it == nil {
			continue
		}
		tags := it.Sources()
		if len(tags) == 0 {
			continue
		}
		// Fanout 的 union 输出里每个候选恰带一个来源标签
		w, ok := weights[tags[0]]
		if !ok {
			continue
		}

		got, exists := merged[it.ID]
		if !exists {
			out := core.NewItem(it.ID)
			out.Meta = it.Meta
			merged[it.ID] = out
			order = append(order, it.ID)
			got = out
		}
		got.Score += it.Score * w
		for k, v := range it.Labels {
			got.PutLabel(k, v)
		}
	}

	out := make([]*core.Item, 0, len(order))
	for _, id := range order {
		out = append(out, merged[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}
