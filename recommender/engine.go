// Package recommender 是 glowrec 的门面层：组装召回源、过滤、融合与缓存，
// 对外暴露个性化推荐、相似商品、好友趋势、冷启动等推荐面。
package recommender

import (
	"context"
	"math"
	"time"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/feature"
	"github.com/glowrec/glowrec/filter"
	"github.com/glowrec/glowrec/interaction"
	"github.com/glowrec/glowrec/pipeline"
	"github.com/glowrec/glowrec/rank"
	"github.com/glowrec/glowrec/recall"
	"github.com/glowrec/glowrec/rerank"
)

// ProductResolver 把候选商品 ID 解析为完整商品。
// 召回在 ID 空间计算，解析阶段商品可能已下架，引擎对此做一致性容忍。
type ProductResolver interface {
	// GetProduct 按 ID 解析商品；不存在时返回 NOT_FOUND 领域错误。
	GetProduct(ctx context.Context, productID string) (core.Product, error)

	// TopRatedProducts 返回评论数 >= minReviews 的商品，按平均评分降序。
	TopRatedProducts(ctx context.Context, minReviews, limit int) ([]core.Product, error)
}

// Deps 是引擎的全部外部依赖。Cache 可以为 nil（不启用缓存）。
type Deps struct {
	Events   interaction.EventStore
	Orders   recall.OrderStore
	Social   recall.SocialStore
	Trends   recall.TrendStore
	Catalog  feature.ProductCatalog
	Resolver ProductResolver
	Cache    core.Store
}

// Recommendation 是解析后的单条推荐。
type Recommendation struct {
	Product core.Product     `json:"product"`
	Score   float64          `json:"recommendation_score"`
	Sources []core.SourceTag `json:"sources"`
}

// Result 是一次推荐请求的完整结果。
// Dropped 记录解析阶段消失的候选数（商品下架等），调用方可观测数据漂移。
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Dropped         int              `json:"dropped"`
	ColdStart       bool             `json:"cold_start"`
}

// Engine 组合全部推荐能力。并发安全，可全局共享一个实例。
type Engine struct {
	cfg Config

	extractor *interaction.Extractor
	vectors   *feature.Service
	content   *recall.ContentRecall
	userCF    *recall.UserCF
	itemCF    *recall.ItemCF
	social    *recall.SocialRecall
	trending  *recall.Trending
	resolver  ProductResolver
	cache     *resultCache
}

func New(deps Deps, cfg Config) *Engine {
	extractor := &interaction.Extractor{Events: deps.Events}
	vectors := feature.NewService(deps.Catalog)

	e := &Engine{
		cfg:       cfg,
		extractor: extractor,
		vectors:   vectors,
		content: &recall.ContentRecall{
			Vectors:         vectors,
			Interactions:    extractor,
			TopK:            cfg.ContentTopK,
			SimilarPerSeed:  cfg.SimilarPerSeed,
			SimilarityFloor: cfg.ContentFloor,
		},
		userCF: &recall.UserCF{
			Interactions:      extractor,
			TopKSimilarUsers:  cfg.TopKSimilarUsers,
			TopK:              cfg.UserCFTopK,
			MinCommonProducts: cfg.MinCommonProducts,
			SimilarityFloor:   cfg.UserSimilarityFloor,
		},
		itemCF: &recall.ItemCF{
			Orders:       deps.Orders,
			Interactions: extractor,
			TopK:         cfg.ItemCFTopK,
		},
		social: &recall.SocialRecall{
			Social:       deps.Social,
			Interactions: extractor,
			TopK:         cfg.SocialTopK,
		},
		trending: &recall.Trending{
			Store:  deps.Trends,
			Window: cfg.trendingWindow(),
			Limit:  cfg.TrendingLimit,
		},
		resolver: deps.Resolver,
		cache:    &resultCache{store: deps.Cache},
	}
	return e
}

// RebuildVectors 重建商品特征空间（商品目录变更后调用）。
func (e *Engine) RebuildVectors(ctx context.Context) error {
	_, err := e.vectors.Rebuild(ctx)
	return err
}

// SimilarProducts 返回与指定商品内容相似的商品（带缓存，24h）。
// 未知商品返回空列表；相似度 <= 下限的结果不出现。
func (e *Engine) SimilarProducts(ctx context.Context, productID string, limit int) ([]recall.Scored, error) {
	if limit <= 0 {
		limit = 5
	}
	cacheable := cacheableLimit(e.cfg.Limits.similar(), limit)
	key := cacheKey(opSimilarProducts, productID, limit)
	var cached []recall.Scored
	if cacheable && e.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	scored, err := e.content.SimilarProducts(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	if cacheable {
		e.cache.put(ctx, key, scored, e.cfg.TTL.similar())
	}
	return scored, nil
}

// ContentRecommendations 返回基于内容相似度的个性化候选（不缓存，供组合调用）。
func (e *Engine) ContentRecommendations(ctx context.Context, userID string, limit int) ([]recall.Scored, error) {
	return e.content.RecommendationsForUser(ctx, userID, limit)
}

// SimilarUsers 返回与目标用户兴趣相似的用户。
func (e *Engine) SimilarUsers(ctx context.Context, userID string, limit int) ([]recall.ScoredUser, error) {
	return e.userCF.SimilarUsers(ctx, userID, limit)
}

// UserBasedRecommendations 返回基于用户协同过滤的候选。
func (e *Engine) UserBasedRecommendations(ctx context.Context, userID string, limit int) ([]recall.Scored, error) {
	return e.userCF.Recommendations(ctx, userID, limit)
}

// ItemBasedRecommendations 返回基于订单共现的候选。
func (e *Engine) ItemBasedRecommendations(ctx context.Context, userID string, limit int) ([]recall.Scored, error) {
	return e.itemCF.Recommendations(ctx, userID, limit)
}

// FriendsRecommendations 返回好友信号驱动的候选。
func (e *Engine) FriendsRecommendations(ctx context.Context, userID string, limit int) ([]recall.Scored, error) {
	return e.social.FriendsRecommendations(ctx, userID, limit)
}

// TrendingAmongFriends 返回好友圈近 7 天的热门商品（带缓存，30min）。
func (e *Engine) TrendingAmongFriends(ctx context.Context, userID string, limit int) ([]recall.Scored, error) {
	if limit <= 0 {
		limit = e.cfg.friendsTrendingTopK()
	}
	cacheable := cacheableLimit(e.cfg.Limits.friendsTrending(), limit)
	key := cacheKey(opFriendsTrending, userID, limit)
	var cached []recall.Scored
	if cacheable && e.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	scored, err := e.social.TrendingAmongFriends(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if cacheable {
		e.cache.put(ctx, key, scored, e.cfg.TTL.friendsTrending())
	}
	return scored, nil
}

// TrendingProducts 返回全站趋势榜单的商品 ID（按趋势分降序）。
func (e *Engine) TrendingProducts(ctx context.Context, limit int) ([]string, error) {
	return e.trending.TrendingProducts(ctx, time.Now(), e.cfg.trendingWindow(), limit)
}

// PublishTrending 把当前窗口的趋势榜单预聚合到缓存后端的有序集合。
// 由后台任务周期调用；缓存后端需实现 core.KeyValueStore，否则返回不支持错误。
func (e *Engine) PublishTrending(ctx context.Context) error {
	board, ok := e.trendingBoard()
	if !ok {
		return core.ErrStoreNotSupported
	}
	scores, err := e.trending.Scores(ctx, time.Now(), e.cfg.trendingWindow(), e.cfg.TrendingLimit)
	if err != nil {
		return err
	}
	return board.Publish(ctx, scores)
}

// TrendingFromBoard 从预聚合榜单读取 TopN 趋势商品（分数降序）。
// 榜单未发布时返回空列表。
func (e *Engine) TrendingFromBoard(ctx context.Context, limit int) ([]recall.Scored, error) {
	board, ok := e.trendingBoard()
	if !ok {
		return nil, core.ErrStoreNotSupported
	}
	return board.Top(ctx, limit)
}

func (e *Engine) trendingBoard() (*recall.TrendingBoard, bool) {
	kv, ok := e.cache.store.(core.KeyValueStore)
	if !ok {
		return nil, false
	}
	return &recall.TrendingBoard{Store: kv}, true
}

// Recommend 是推荐主入口：有历史的用户走混合个性化，
// 无历史的用户自动降级到冷启动榜单。
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) (Result, error) {
	history, err := e.extractor.History(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	if history.Empty() {
		return e.ColdStartRecommendations(ctx, limit)
	}
	return e.personalized(ctx, userID, &history, limit)
}

// PersonalizedRecommendations 返回混合加权的个性化推荐（带缓存，1h）。
// 五路信号并发召回、按来源加权融合；用户历史中的商品保证不出现。
func (e *Engine) PersonalizedRecommendations(ctx context.Context, userID string, limit int) (Result, error) {
	history, err := e.extractor.History(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	return e.personalized(ctx, userID, &history, limit)
}

func (e *Engine) personalized(ctx context.Context, userID string, history *core.History, limit int) (Result, error) {
	if limit <= 0 {
		limit = 10
	}
	cacheable := cacheableLimit(e.cfg.Limits.personalized(), limit)
	key := cacheKey(opPersonalized, userID, limit)
	var cached Result
	if cacheable && e.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	rctx := &core.RecommendContext{
		UserID:  userID,
		Scene:   "personalized",
		History: history,
		Now:     time.Now(),
	}

	items, err := e.buildPipeline(limit).Run(ctx, rctx, nil)
	if err != nil {
		return Result{}, err
	}

	result, err := e.resolve(ctx, items)
	if err != nil {
		return Result{}, err
	}
	if cacheable {
		e.cache.put(ctx, key, result, e.cfg.TTL.personalized())
	}
	return result, nil
}

// ColdStartRecommendations 返回冷启动榜单（带缓存，24h）：
// 近 14 天趋势商品（分数 1.0），不足时用高分商品补齐（分数 0.9）。
func (e *Engine) ColdStartRecommendations(ctx context.Context, limit int) (Result, error) {
	if limit <= 0 {
		limit = 10
	}
	cacheable := cacheableLimit(e.cfg.Limits.warm(), limit)
	key := cacheKey(opColdStart, "", limit)
	var cached Result
	if cacheable && e.cache.get(ctx, key, &cached) {
		return cached, nil
	}

	ids, err := e.trending.TrendingProducts(ctx, time.Now(), e.cfg.coldStartWindow(), limit)
	if err != nil {
		return Result{}, err
	}

	result := Result{Recommendations: make([]Recommendation, 0, limit), ColdStart: true}
	included := make(map[string]bool, limit)
	for _, id := range ids {
		p, err := e.resolver.GetProduct(ctx, id)
		if err != nil {
			if core.IsNotFound(err) {
				result.Dropped++
				continue
			}
			return Result{}, err
		}
		included[id] = true
		result.Recommendations = append(result.Recommendations, Recommendation{
			Product: p,
			Score:   1.0,
			Sources: []core.SourceTag{core.TagTrending, core.TagColdStart},
		})
	}

	if missing := limit - len(result.Recommendations); missing > 0 {
		rated, err := e.resolver.TopRatedProducts(ctx, e.cfg.coldStartMinReviews(), limit)
		if err != nil {
			return Result{}, err
		}
		for _, p := range rated {
			if missing <= 0 {
				break
			}
			if included[p.ID] {
				continue
			}
			included[p.ID] = true
			result.Recommendations = append(result.Recommendations, Recommendation{
				Product: p,
				Score:   0.9,
				Sources: []core.SourceTag{core.TagTopRated, core.TagColdStart},
			})
			missing--
		}
	}

	if cacheable {
		e.cache.put(ctx, key, result, e.cfg.TTL.coldStart())
	}
	return result, nil
}

// buildPipeline 按请求组装 Pipeline：召回 → 过滤 → 融合 → 截断。
// Node 都是轻量结构体，按请求组装没有额外开销。
func (e *Engine) buildPipeline(limit int) *pipeline.Pipeline {
	filters := []filter.Filter{&filter.SeenFilter{}}
	if e.cfg.RuleExpr != "" {
		filters = append(filters, &filter.RuleFilter{Expr: e.cfg.RuleExpr})
	}
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&recall.Fanout{
				Sources: []recall.Source{
					e.content,
					e.userCF,
					e.itemCF,
					e.social,
					e.trending,
				},
				Timeout:       e.cfg.fanoutTimeout(),
				MaxConcurrent: e.cfg.FanoutMaxConcurrent,
			},
			&filter.FilterNode{Filters: filters},
			&rank.WeightedFusion{Weights: e.cfg.fusionWeights()},
			&rerank.TopNNode{N: limit},
		},
	}
}

// resolve 把候选 item 解析为完整推荐条目；消失的商品计入 Dropped。
func (e *Engine) resolve(ctx context.Context, items []*core.Item) (Result, error) {
	result := Result{Recommendations: make([]Recommendation, 0, len(items))}
	for _, it := range items {
		p, err := e.resolver.GetProduct(ctx, it.ID)
		if err != nil {
			if core.IsNotFound(err) {
				result.Dropped++
				continue
			}
			return Result{}, err
		}
		result.Recommendations = append(result.Recommendations, Recommendation{
			Product: p,
			Score:   roundScore(it.Score),
			Sources: it.Sources(),
		})
	}
	return result, nil
}

// roundScore 保留三位小数，避免缓存载荷携带浮点长尾。
func roundScore(s float64) float64 {
	return math.Round(s*1000) / 1000
}
