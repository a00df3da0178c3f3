package core

// History 是用户的完整交互历史，按交互类型分组为商品 ID 集合。
// All 恒等于 Liked ∪ Purchased ∪ Reviewed，用于排除已见商品。
type History struct {
	Liked     map[string]struct{}
	Purchased map[string]struct{}
	Reviewed  map[string]struct{}
	All       map[string]struct{}
}

// NewHistory 创建一个空的交互历史。
func NewHistory() History {
	return History{
		Liked:     make(map[string]struct{}),
		Purchased: make(map[string]struct{}),
		Reviewed:  make(map[string]struct{}),
		All:       make(map[string]struct{}),
	}
}

// AddLiked 记录点赞商品，同时并入 All。
func (h *History) AddLiked(productID string) {
	h.Liked[productID] = struct{}{}
	h.All[productID] = struct{}{}
}

// AddPurchased 记录购买商品，同时并入 All。
func (h *History) AddPurchased(productID string) {
	h.Purchased[productID] = struct{}{}
	h.All[productID] = struct{}{}
}

// AddReviewed 记录评论商品，同时并入 All。
func (h *History) AddReviewed(productID string) {
	h.Reviewed[productID] = struct{}{}
	h.All[productID] = struct{}{}
}

// Seen 返回用户是否与该商品有过任意交互。
func (h History) Seen(productID string) bool {
	if h.All == nil {
		return false
	}
	_, ok := h.All[productID]
	return ok
}

// Empty 返回历史是否为空（冷启动判定）。
func (h History) Empty() bool {
	return len(h.All) == 0
}
