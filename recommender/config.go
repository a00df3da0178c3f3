package recommender

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/rank"
)

// Config 汇总推荐引擎的全部可调参数。
// 所有字段零值可用：未配置时退回到各组件内置的默认值，
// 因此 Config{} 就是一份可工作的配置。
type Config struct {
	// Weights 融合阶段的来源权重（key 为来源标签字符串）。
	// 为空时使用 rank.DefaultWeights。
	Weights map[string]float64 `yaml:"weights" json:"weights"`

	// 召回参数
	ContentTopK         int     `yaml:"content_top_k" json:"content_top_k"`                   // <=0 时取 15
	SimilarPerSeed      int     `yaml:"similar_per_seed" json:"similar_per_seed"`             // <=0 时取 15
	ContentFloor        float64 `yaml:"content_floor" json:"content_floor"`                   // 0 值时取 0.1，负值关闭下限
	UserCFTopK          int     `yaml:"user_cf_top_k" json:"user_cf_top_k"`                   // <=0 时取 15
	TopKSimilarUsers    int     `yaml:"top_k_similar_users" json:"top_k_similar_users"`       // <=0 时取 15
	MinCommonProducts   int     `yaml:"min_common_products" json:"min_common_products"`       // <=0 时取 2
	UserSimilarityFloor float64 `yaml:"user_similarity_floor" json:"user_similarity_floor"`   // 0 值时取 0.3，负值关闭下限
	ItemCFTopK          int     `yaml:"item_cf_top_k" json:"item_cf_top_k"`                   // <=0 时取 10
	SocialTopK          int     `yaml:"social_top_k" json:"social_top_k"`                     // <=0 时取 15
	FriendsTrendingTopK int     `yaml:"friends_trending_top_k" json:"friends_trending_top_k"` // <=0 时取 15
	TrendingLimit       int     `yaml:"trending_limit" json:"trending_limit"`                 // <=0 时取 10
	TrendingWindowDays  int     `yaml:"trending_window_days" json:"trending_window_days"`     // <=0 时取 7

	// 冷启动参数
	ColdStartWindowDays int `yaml:"cold_start_window_days" json:"cold_start_window_days"` // <=0 时取 14
	ColdStartMinReviews int `yaml:"cold_start_min_reviews" json:"cold_start_min_reviews"` // <=0 时取 3

	// Pipeline 参数
	FanoutTimeoutSeconds int    `yaml:"fanout_timeout_seconds" json:"fanout_timeout_seconds"` // <=0 时取 2
	FanoutMaxConcurrent  int    `yaml:"fanout_max_concurrent" json:"fanout_max_concurrent"`   // 0 表示无限制
	RuleExpr             string `yaml:"rule_expr" json:"rule_expr"`                           // CEL 排除规则，为空不启用

	TTL    TTLConfig    `yaml:"ttl" json:"ttl"`
	Limits LimitsConfig `yaml:"limits" json:"limits"`
}

// TTLConfig 各推荐面的缓存有效期（秒）。
type TTLConfig struct {
	PersonalizedSeconds    int `yaml:"personalized_seconds" json:"personalized_seconds"`         // <=0 时取 3600
	SimilarSeconds         int `yaml:"similar_seconds" json:"similar_seconds"`                   // <=0 时取 86400
	FriendsTrendingSeconds int `yaml:"friends_trending_seconds" json:"friends_trending_seconds"` // <=0 时取 1800
	ColdStartSeconds       int `yaml:"cold_start_seconds" json:"cold_start_seconds"`             // <=0 时取 86400
}

// LimitsConfig 各推荐面对外暴露的 limit 枚举。
// 失效与预热按这些枚举展开缓存 key，新增枚举值只改配置即可。
type LimitsConfig struct {
	Personalized    []int `yaml:"personalized" json:"personalized"`         // 为空时取 [10,20,30,50]
	FriendsTrending []int `yaml:"friends_trending" json:"friends_trending"` // 为空时取 [15,30]
	Similar         []int `yaml:"similar" json:"similar"`                   // 为空时取 [5,10,15,20]
	Warm            []int `yaml:"warm" json:"warm"`                         // 为空时取 [10,20,30]
}

// LoadConfig 从 YAML 文件加载配置。
func LoadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) fusionWeights() map[core.SourceTag]float64 {
	if len(c.Weights) == 0 {
		return rank.DefaultWeights
	}
	out := make(map[core.SourceTag]float64, len(c.Weights))
	for tag, w := range c.Weights {
		out[core.SourceTag(tag)] = w
	}
	return out
}

func (c Config) fanoutTimeout() time.Duration {
	if c.FanoutTimeoutSeconds <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.FanoutTimeoutSeconds) * time.Second
}

func (c Config) trendingWindow() time.Duration {
	if c.TrendingWindowDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(c.TrendingWindowDays) * 24 * time.Hour
}

func (c Config) coldStartWindow() time.Duration {
	if c.ColdStartWindowDays <= 0 {
		return 14 * 24 * time.Hour
	}
	return time.Duration(c.ColdStartWindowDays) * 24 * time.Hour
}

func (c Config) friendsTrendingTopK() int {
	if c.FriendsTrendingTopK <= 0 {
		return 15
	}
	return c.FriendsTrendingTopK
}

func (c Config) coldStartMinReviews() int {
	if c.ColdStartMinReviews <= 0 {
		return 3
	}
	return c.ColdStartMinReviews
}

func (c TTLConfig) personalized() int {
	if c.PersonalizedSeconds <= 0 {
		return 3600
	}
	return c.PersonalizedSeconds
}

func (c TTLConfig) similar() int {
	if c.SimilarSeconds <= 0 {
		return 86400
	}
	return c.SimilarSeconds
}

func (c TTLConfig) friendsTrending() int {
	if c.FriendsTrendingSeconds <= 0 {
		return 1800
	}
	return c.FriendsTrendingSeconds
}

func (c TTLConfig) coldStart() int {
	if c.ColdStartSeconds <= 0 {
		return 86400
	}
	return c.ColdStartSeconds
}

func (c LimitsConfig) personalized() []int {
	if len(c.Personalized) == 0 {
		return []int{10, 20, 30, 50}
	}
	return c.Personalized
}

func (c LimitsConfig) friendsTrending() []int {
	if len(c.FriendsTrending) == 0 {
		return []int{15, 30}
	}
	return c.FriendsTrending
}

func (c LimitsConfig) similar() []int {
	if len(c.Similar) == 0 {
		return []int{5, 10, 15, 20}
	}
	return c.Similar
}

func (c LimitsConfig) warm() []int {
	if len(c.Warm) == 0 {
		return []int{10, 20, 30}
	}
	return c.Warm
}
