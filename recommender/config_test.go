package recommender

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig_ZeroValueDefaults(t *testing.T) {
	var cfg Config

	if got := cfg.TTL.personalized(); got != 3600 {
		t.Errorf("personalized TTL = %d, want 3600", got)
	}
	if got := cfg.TTL.similar(); got != 86400 {
		t.Errorf("similar TTL = %d, want 86400", got)
	}
	if got := cfg.TTL.friendsTrending(); got != 1800 {
		t.Errorf("friends trending TTL = %d, want 1800", got)
	}
	if got := cfg.TTL.coldStart(); got != 86400 {
		t.Errorf("cold start TTL = %d, want 86400", got)
	}

	if got := cfg.coldStartWindow(); got != 14*24*time.Hour {
		t.Errorf("cold start window = %v, want 14d", got)
	}
	if got := cfg.trendingWindow(); got != 7*24*time.Hour {
		t.Errorf("trending window = %v, want 7d", got)
	}
	if got := cfg.fanoutTimeout(); got != 2*time.Second {
		t.Errorf("fanout timeout = %v, want 2s", got)
	}

	wantLimits := map[string][]int{
		"personalized":     {10, 20, 30, 50},
		"friends_trending": {15, 30},
		"similar":          {5, 10, 15, 20},
		"warm":             {10, 20, 30},
	}
	gotLimits := map[string][]int{
		"personalized":     cfg.Limits.personalized(),
		"friends_trending": cfg.Limits.friendsTrending(),
		"similar":          cfg.Limits.similar(),
		"warm":             cfg.Limits.warm(),
	}
	for name, want := range wantLimits {
		got := gotLimits[name]
		if len(got) != len(want) {
			t.Errorf("%s limits = %v, want %v", name, got, want)
			continue
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s limits = %v, want %v", name, got, want)
				break
			}
		}
	}

	// default fusion weights sum to 1
	var sum float64
	for _, w := range cfg.fusionWeights() {
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		t.Errorf("default weights sum = %v, want 1.0", sum)
	}
}

func TestLoadConfig(t *testing.T) {
	yaml := `
weights:
  content_based: 0.5
  trending: 0.5
trending_limit: 25
rule_expr: 'item.score < 0.01'
ttl:
  personalized_seconds: 600
limits:
  warm: [5, 10]
`
	path := filepath.Join(t.TempDir(), "glowrec.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Weights["content_based"] != 0.5 {
		t.Errorf("content weight = %v, want 0.5", cfg.Weights["content_based"])
	}
	if cfg.TrendingLimit != 25 {
		t.Errorf("TrendingLimit = %d, want 25", cfg.TrendingLimit)
	}
	if cfg.RuleExpr != "item.score < 0.01" {
		t.Errorf("RuleExpr = %q", cfg.RuleExpr)
	}
	if cfg.TTL.personalized() != 600 {
		t.Errorf("personalized TTL = %d, want 600", cfg.TTL.personalized())
	}
	warm := cfg.Limits.warm()
	if len(warm) != 2 || warm[0] != 5 || warm[1] != 10 {
		t.Errorf("warm limits = %v, want [5 10]", warm)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/glowrec.yaml"); err == nil {
		t.Error("missing file must error")
	}
}
