// Package dataset 提供行为事件与商品目录的内存实现，用于测试/开发/原型。
// 生产环境由业务数据层实现各消费方接口（interaction.EventStore、
// recall.SocialStore 等），推荐引擎对底层存储无感知。
package dataset

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/glowrec/glowrec/core"
)

// Memory 是全部数据接口的内存实现，读写都加锁，可在测试中并发使用。
type Memory struct {
	mu           sync.RWMutex
	products     map[string]core.Product
	productOrder []string
	users        []string
	userSet      map[string]bool
	likes        []core.Like
	orders       []core.Order
	reviews      []core.Review
	follows      map[string][]string // follower -> following（保序，无自环）
}

func NewMemory() *Memory {
	return &Memory{
		products: make(map[string]core.Product),
		userSet:  make(map[string]bool),
		follows:  make(map[string][]string),
	}
}

// AddProduct 登记商品，保留插入顺序。
func (m *Memory) AddProduct(p core.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		m.productOrder = append(m.productOrder, p.ID)
	}
	m.products[p.ID] = p
}

// AddUser 登记用户。
func (m *Memory) AddUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.userSet[userID] {
		m.userSet[userID] = true
		m.users = append(m.users, userID)
	}
}

// AddLike 记录点赞事件（用户不存在时自动登记）。
func (m *Memory) AddLike(l core.Like) {
	m.AddUser(l.UserID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.likes = append(m.likes, l)
}

// AddOrder 记录订单。
func (m *Memory) AddOrder(o core.Order) {
	m.AddUser(o.UserID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, o)
}

// AddReview 记录评论。
func (m *Memory) AddReview(r core.Review) {
	m.AddUser(r.UserID)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = append(m.reviews, r)
}

// Follow 建立单向关注边；自环被忽略。
func (m *Memory) Follow(follower, following string) {
	if follower == following {
		return
	}
	m.AddUser(follower)
	m.AddUser(following)
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.follows[follower] {
		if f == following {
			return
		}
	}
	m.follows[follower] = append(m.follows[follower], following)
}

// Unfollow 删除关注边。
func (m *Memory) Unfollow(follower, following string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.follows[follower]
	for i, f := range list {
		if f == following {
			m.follows[follower] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// --- interaction.EventStore ---

func (m *Memory) AllUserIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *Memory) UserLikes(ctx context.Context, userID string) ([]core.Like, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Like, 0)
	for _, l := range m.likes {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) UserOrders(ctx context.Context, userID string) ([]core.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *Memory) UserReviews(ctx context.Context, userID string) ([]core.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Review, 0)
	for _, r := range m.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- recall.OrderStore ---

func (m *Memory) AllOrders(ctx context.Context) ([]core.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

// --- recall.SocialStore ---

func (m *Memory) Friends(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := m.follows[userID]
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

func (m *Memory) LikesByUsersSince(ctx context.Context, userIDs []string, since time.Time) ([]core.Like, error) {
	set := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		set[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Like, 0)
	for _, l := range m.likes {
		if set[l.UserID] && !l.CreatedAt.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) OrdersByUsersSince(ctx context.Context, userIDs []string, since time.Time) ([]core.Order, error) {
	set := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		set[id] = true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Order, 0)
	for _, o := range m.orders {
		if set[o.UserID] && !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

// --- recall.TrendStore ---

func (m *Memory) LikesSince(ctx context.Context, since time.Time) ([]core.Like, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Like, 0)
	for _, l := range m.likes {
		if !l.CreatedAt.Before(since) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *Memory) OrdersSince(ctx context.Context, since time.Time) ([]core.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Order, 0)
	for _, o := range m.orders {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *Memory) ReviewsSince(ctx context.Context, since time.Time) ([]core.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Review, 0)
	for _, r := range m.reviews {
		if !r.CreatedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- feature.ProductCatalog ---

func (m *Memory) ListProducts(ctx context.Context) ([]core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Product, 0, len(m.productOrder))
	for _, id := range m.productOrder {
		out = append(out, m.withRating(m.products[id]))
	}
	return out, nil
}

// --- recommender.ProductResolver ---

func (m *Memory) GetProduct(ctx context.Context, productID string) (core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[productID]
	if !ok {
		return core.Product{}, core.NewDomainError(core.ModuleDataset, core.ErrorCodeNotFound, "dataset: product not found: "+productID)
	}
	return m.withRating(p), nil
}

// RemoveProduct 下架商品（测试“解析期商品消失”的一致性容忍用）。
func (m *Memory) RemoveProduct(productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, productID)
	for i, id := range m.productOrder {
		if id == productID {
			m.productOrder = append(m.productOrder[:i], m.productOrder[i+1:]...)
			break
		}
	}
}

func (m *Memory) TopRatedProducts(ctx context.Context, minReviews, limit int) ([]core.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type rated struct {
		p     core.Product
		avg   float64
		count int
	}
	out := make([]rated, 0)
	for _, id := range m.productOrder {
		avg, count := m.rating(id)
		if count < minReviews {
			continue
		}
		out = append(out, rated{p: m.withRating(m.products[id]), avg: avg, count: count})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].avg != out[j].avg {
			return out[i].avg > out[j].avg
		}
		return out[i].count > out[j].count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	products := make([]core.Product, len(out))
	for i, r := range out {
		products[i] = r.p
	}
	return products, nil
}

// rating 返回商品的平均评分与评论数（派生值，调用方需持有读锁）。
func (m *Memory) rating(productID string) (float64, int) {
	var sum float64
	var count int
	for _, r := range m.reviews {
		if r.ProductID == productID {
			sum += float64(r.Rating)
			count++
		}
	}
	if count == 0 {
		return 0, 0
	}
	return sum / float64(count), count
}

func (m *Memory) withRating(p core.Product) core.Product {
	avg, count := m.rating(p.ID)
	if count > 0 {
		p.AverageRating = &avg
	}
	return p
}
