package core

import "strings"

// SourceTag 是推荐结果的来源标签，标记候选由哪条信号链路产生。
// 使用枚举类型而非自由字符串，便于上层按来源做解释与策略。
type SourceTag string

const (
	TagContentBased    SourceTag = "content_based"
	TagCollaborative   SourceTag = "collaborative_filtering"
	TagItemBasedCF     SourceTag = "item_based_cf"
	TagSocial          SourceTag = "social"
	TagFriendsTrending SourceTag = "friends_trending"
	TagTrending        SourceTag = "trending"
	TagColdStart       SourceTag = "cold_start"
	TagTopRated        SourceTag = "top_rated"
)

// SplitSourceTags 解析按 '|' 累积的来源标签值（见 utils.MergeLabel），去重并保序。
func SplitSourceTags(merged string) []SourceTag {
	parts := strings.Split(merged, "|")
	seen := make(map[SourceTag]bool, len(parts))
	out := make([]SourceTag, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tag := SourceTag(p)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
