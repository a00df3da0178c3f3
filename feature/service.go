package feature

import (
	"context"
	"math"
	"sync"

	"github.com/glowrec/glowrec/core"
)

// ProductCatalog 是商品目录的只读接口，由外部数据层实现。
type ProductCatalog interface {
	ListProducts(ctx context.Context) ([]core.Product, error)
}

// Space 是拟合后的商品向量空间：TF-IDF 矩阵 + 与行序一一对应的商品 ID 列表。
// 不变式：len(Matrix) == len(ProductIDs)。
type Space struct {
	Model      *Model
	Matrix     [][]float64
	ProductIDs []string

	index map[string]int
}

// Len 返回空间内商品数。
func (s *Space) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ProductIDs)
}

// Row 返回商品对应的向量行；商品不在空间内时返回 (nil, false)。
func (s *Space) Row(productID string) ([]float64, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[productID]
	if !ok {
		return nil, false
	}
	return s.Matrix[i], true
}

// Cosine 计算两个向量的余弦相似度：dot(a,b)/(‖a‖·‖b‖)。
// 任一侧为零向量时按约定返回 0，不产生除零错误。
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		normA += x * x
	}
	for _, x := range b {
		normB += x * x
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Service 持有进程级的商品向量空间，显式注入、显式重建。
//
// 生命周期：首次访问时懒构建，之后常驻内存；目录变更不会自动失效，
// 需要管理动作或定时任务显式调用 Rebuild（接受短暂的过期窗口）。
// 并发重建不加全局序，最后写入者生效。
type Service struct {
	Catalog    ProductCatalog
	Vectorizer Vectorizer

	mu    sync.Mutex
	space *Space
}

func NewService(catalog ProductCatalog) *Service {
	return &Service{Catalog: catalog}
}

// Rebuild 从商品目录重新拟合整个向量空间。
// 空目录返回 (nil, nil)，调用方把 nil 空间视为空结果。
func (s *Service) Rebuild(ctx context.Context) (*Space, error) {
	if s.Catalog == nil {
		return nil, nil
	}
	products, err := s.Catalog.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		s.mu.Lock()
		s.space = nil
		s.mu.Unlock()
		return nil, nil
	}

	docs := make([]string, len(products))
	ids := make([]string, len(products))
	for i, p := range products {
		docs[i] = Document(p)
		ids[i] = p.ID
	}

	model := s.Vectorizer.Fit(docs)
	space := &Space{
		Model:      model,
		Matrix:     model.Rows(),
		ProductIDs: ids,
		index:      make(map[string]int, len(ids)),
	}
	for i, id := range ids {
		space.index[id] = i
	}

	s.mu.Lock()
	s.space = space
	s.mu.Unlock()
	return space, nil
}

// GetOrBuild 返回缓存的向量空间，首次访问时懒构建。
func (s *Service) GetOrBuild(ctx context.Context) (*Space, error) {
	s.mu.Lock()
	cached := s.space
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	return s.Rebuild(ctx)
}
