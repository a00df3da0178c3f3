package core

import "time"

// Product 是商品的只读视图：推荐引擎只消费，不修改。
// AverageRating 为派生值，可能缺失（无评论时为 nil）。
type Product struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	Category      string    `json:"category"`
	Ingredients   []string  `json:"ingredients"`
	Benefits      []string  `json:"benefits"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}

// PriceTier 返回商品的价格档位标签：budget / mid-range / premium。
func (p Product) PriceTier() string {
	switch {
	case p.Price < 20:
		return "budget"
	case p.Price < 50:
		return "mid-range"
	default:
		return "premium"
	}
}

// Like 是用户点赞事件（用户-商品边，带时间戳）。
type Like struct {
	UserID    string
	ProductID string
	CreatedAt time.Time
}

// OrderStatus 是订单状态。只有已确认及之后的状态才计入“已购买”。
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Qualifies 返回该状态是否计入购买信号。
func (s OrderStatus) Qualifies() bool {
	switch s {
	case OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered:
		return true
	}
	return false
}

// OrderLine 是订单中的一行商品。
// 注意：购买信号按行计权，不乘 Quantity（与线上历史行为保持一致）。
type OrderLine struct {
	ProductID string
	Quantity  int
}

// Order 是订单的只读视图。
type Order struct {
	ID        string
	UserID    string
	Status    OrderStatus
	Lines     []OrderLine
	CreatedAt time.Time
}

// Review 是用户对商品的评论，Rating 取值 1-5。
type Review struct {
	UserID    string
	ProductID string
	Rating    int
	CreatedAt time.Time
}
