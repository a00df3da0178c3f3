package recall

import (
	"context"
	"testing"
	"time"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/dataset"
	"github.com/glowrec/glowrec/feature"
	"github.com/glowrec/glowrec/interaction"
)

func contentFixture() (*dataset.Memory, *ContentRecall) {
	mem := dataset.NewMemory()
	mem.AddProduct(core.Product{
		ID: "serum-a", Price: 24, Category: "serum",
		Ingredients: []string{"niacinamide", "zinc"},
		Benefits:    []string{"brightening", "pore refining"},
	})
	mem.AddProduct(core.Product{
		ID: "serum-b", Price: 28, Category: "serum",
		Ingredients: []string{"niacinamide", "hyaluronic acid"},
		Benefits:    []string{"brightening"},
	})
	mem.AddProduct(core.Product{
		ID: "cleanser-c", Price: 90, Category: "cleanser",
		Ingredients: []string{"charcoal"},
		Benefits:    []string{"deep cleansing"},
	})

	r := &ContentRecall{
		Vectors:      feature.NewService(mem),
		Interactions: &interaction.Extractor{Events: mem},
	}
	return mem, r
}

func TestContentRecall_SimilarProducts(t *testing.T) {
	_, r := contentFixture()
	ctx := context.Background()

	similar, err := r.SimilarProducts(ctx, "serum-a", 10)
	if err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}

	for _, s := range similar {
		if s.ProductID == "serum-a" {
			t.Error("product must never be similar to itself")
		}
		if s.Score <= 0.1 {
			t.Errorf("score %v below similarity floor leaked into results", s.Score)
		}
	}

	// the niacinamide serum must rank above the unrelated cleanser
	rank := make(map[string]int)
	for i, s := range similar {
		rank[s.ProductID] = i
	}
	bRank, bOK := rank["serum-b"]
	cRank, cOK := rank["cleanser-c"]
	if !bOK {
		t.Fatal("serum-b missing from similar products")
	}
	if cOK && cRank < bRank {
		t.Errorf("cleanser-c ranked %d above serum-b at %d", cRank, bRank)
	}

	// descending order
	for i := 1; i < len(similar); i++ {
		if similar[i].Score > similar[i-1].Score {
			t.Fatal("similar products not sorted by score descending")
		}
	}
}

func TestContentRecall_SimilarProducts_NegativeFloorDisablesCut(t *testing.T) {
	_, r := contentFixture()
	r.SimilarityFloor = -1

	similar, err := r.SimilarProducts(context.Background(), "serum-a", 10)
	if err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}
	// the unrelated cleanser sits at/below the default floor; a negative
	// floor must keep it
	found := false
	for _, s := range similar {
		if s.ProductID == "cleanser-c" {
			found = true
		}
	}
	if !found {
		t.Errorf("negative floor must keep low-similarity products, got %v", similar)
	}
}

func TestContentRecall_SimilarProducts_UnknownProduct(t *testing.T) {
	_, r := contentFixture()
	similar, err := r.SimilarProducts(context.Background(), "ghost", 10)
	if err != nil {
		t.Fatalf("SimilarProducts: %v", err)
	}
	if len(similar) != 0 {
		t.Errorf("unknown product must yield empty result, got %v", similar)
	}
}

func TestContentRecall_RecommendationsForUser(t *testing.T) {
	mem, r := contentFixture()
	now := time.Now()
	mem.AddLike(core.Like{UserID: "u1", ProductID: "serum-a", CreatedAt: now})

	recs, err := r.RecommendationsForUser(context.Background(), "u1", 10)
	if err != nil {
		t.Fatalf("RecommendationsForUser: %v", err)
	}
	if len(recs) == 0 {
		t.Fatal("expected content recommendations for user with history")
	}
	for _, s := range recs {
		if s.ProductID == "serum-a" {
			t.Error("seed product from history must be excluded")
		}
	}
}

func TestContentRecall_RecommendationsForUser_EmptyHistory(t *testing.T) {
	_, r := contentFixture()
	recs, err := r.RecommendationsForUser(context.Background(), "nobody", 10)
	if err != nil {
		t.Fatalf("RecommendationsForUser: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("empty history must yield empty result, got %v", recs)
	}
}

func TestContentRecall_InteractionWeightScalesScore(t *testing.T) {
	memA, rA := contentFixture()
	memB, rB := contentFixture()
	now := time.Now()

	// same seed, like vs purchase: purchase weighs 3x
	memA.AddLike(core.Like{UserID: "u1", ProductID: "serum-a", CreatedAt: now})
	memB.AddOrder(core.Order{
		ID: "o1", UserID: "u1", Status: core.OrderDelivered, CreatedAt: now,
		Lines: []core.OrderLine{{ProductID: "serum-a", Quantity: 1}},
	})

	ctx := context.Background()
	liked, err := rA.RecommendationsForUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("liked: %v", err)
	}
	bought, err := rB.RecommendationsForUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("bought: %v", err)
	}
	if len(liked) == 0 || len(bought) == 0 {
		t.Fatal("expected recommendations in both fixtures")
	}
	if bought[0].Score <= liked[0].Score {
		t.Errorf("purchase-seeded score %v must exceed like-seeded score %v",
			bought[0].Score, liked[0].Score)
	}
}
