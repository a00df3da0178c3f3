package core

import "github.com/glowrec/glowrec/pkg/utils"

// Item 是推荐链路中的统一承载结构：分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策。
type Item struct {
	ID     string
	Score  float64
	Meta   map[string]any
	Labels map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:     id,
		Score:  0,
		Meta:   make(map[string]any),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Sources 返回 item 上累积的所有来源标签（recall_source 的 '|' 分隔值）。
func (it *Item) Sources() []SourceTag {
	lbl, ok := it.Labels[LabelRecallSource]
	if !ok || lbl.Value == "" {
		return nil
	}
	return SplitSourceTags(lbl.Value)
}

// TagSource 给 item 打上来源标签，重复来源按 Merge 规则累积。
func (it *Item) TagSource(tag SourceTag, stage string) {
	it.PutLabel(LabelRecallSource, utils.Label{Value: string(tag), Source: stage})
}

// LabelRecallSource 是来源标签的统一 key，贯穿召回、融合与缓存载荷。
const LabelRecallSource = "recall_source"
