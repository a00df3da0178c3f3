// Package glowrec 是一个混合商品推荐引擎（护肤品电商场景抽象）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Rank → ReRank）
// - 多路信号: 内容相似 / 用户 CF / 订单共现 / 社交 / 趋势 五路召回，按来源加权融合
// - Labels-first: 来源标签全链路透传与标准化 merge，支持 explain / 缓存载荷
// - 缓存即加速层: 缓存失败一律视为 miss，推荐计算永远可降级为全量重算
package glowrec

import "github.com/glowrec/glowrec/pipeline"

// 轻量 facade：便于用户直接 import "glowrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall      = pipeline.KindRecall
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)
