// Package recall 实现五路召回信号：内容相似、用户/物品协同过滤、社交传播与趋势。
// 每路召回都是可复用的 Source，可被 Fanout 并发执行后交给 rank 融合。
package recall

import (
	"context"
	"sort"

	"github.com/glowrec/glowrec/core"
)

// Source 表示一个可复用的召回源（内容/CF/社交/趋势/...）。
// 你可以把它理解为“可并发 fan-out 的策略单元”。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// Scored 是 (商品, 分数) 对，召回源的有序输出单元。
type Scored struct {
	ProductID string  `json:"product_id"`
	Score     float64 `json:"score"`
}

// accumulator 按首次出现顺序累积分数，保证并列分数的排序稳定
// （“插入序打破并列”，与稳定排序语义一致）。
type accumulator struct {
	order  []string
	scores map[string]float64
}

func newAccumulator() *accumulator {
	return &accumulator{scores: make(map[string]float64)}
}

func (a *accumulator) add(productID string, delta float64) {
	if _, ok := a.scores[productID]; !ok {
		a.order = append(a.order, productID)
	}
	a.scores[productID] += delta
}

// ranked 按分数降序稳定排序并截断到 topN（topN<=0 表示不截断）。
func (a *accumulator) ranked(topN int) []Scored {
	out := make([]Scored, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, Scored{ProductID: id, Score: a.scores[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// sortedKeys 返回集合的有序 key 列表，消除 map 迭代的随机性。
func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedIntKeys 同 sortedKeys，作用于计数 map。
func sortedIntKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// toItems 把有序打分列表封装为带来源标签的 Item 列表。
func toItems(scored []Scored, tag core.SourceTag) []*core.Item {
	out := make([]*core.Item, 0, len(scored))
	for _, s := range scored {
		it := core.NewItem(s.ProductID)
		it.Score = s.Score
		it.TagSource(tag, "recall")
		out = append(out, it)
	}
	return out
}
