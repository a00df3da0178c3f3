package recall

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/glowrec/glowrec/core"
	"github.com/glowrec/glowrec/dataset"
	"github.com/glowrec/glowrec/interaction"
)

func socialFixture() (*dataset.Memory, *SocialRecall) {
	mem := dataset.NewMemory()
	return mem, &SocialRecall{Social: mem, Interactions: &interaction.Extractor{Events: mem}}
}

func TestSocialRecall_FriendsRecommendations(t *testing.T) {
	mem, r := socialFixture()
	now := time.Now()

	mem.Follow("me", "friend")
	// friend liked p1 long ago: 1.0 * 0.7 = 0.7, no recent boost
	mem.AddLike(core.Like{UserID: "friend", ProductID: "p1", CreatedAt: now.Add(-60 * 24 * time.Hour)})
	// friend liked p2 recently: 1.0 * 0.7 + 0.3 = 1.0
	mem.AddLike(core.Like{UserID: "friend", ProductID: "p2", CreatedAt: now.Add(-1 * 24 * time.Hour)})

	recs, err := r.FriendsRecommendations(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("FriendsRecommendations: %v", err)
	}

	scores := make(map[string]float64)
	for _, s := range recs {
		scores[s.ProductID] = s.Score
	}
	if math.Abs(scores["p1"]-0.7) > 1e-9 {
		t.Errorf("p1 score = %v, want 0.7 (discounted, no boost)", scores["p1"])
	}
	if math.Abs(scores["p2"]-1.0) > 1e-9 {
		t.Errorf("p2 score = %v, want 1.0 (discounted + recent boost)", scores["p2"])
	}
}

func TestSocialRecall_FriendsRecommendations_ExcludesOwnHistory(t *testing.T) {
	mem, r := socialFixture()
	now := time.Now()

	mem.Follow("me", "friend")
	mem.AddLike(core.Like{UserID: "friend", ProductID: "shared", CreatedAt: now})
	mem.AddLike(core.Like{UserID: "me", ProductID: "shared", CreatedAt: now})

	recs, err := r.FriendsRecommendations(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("FriendsRecommendations: %v", err)
	}
	for _, s := range recs {
		if s.ProductID == "shared" {
			t.Error("own history product leaked into friends recommendations")
		}
	}
}

func TestSocialRecall_NoFriends(t *testing.T) {
	mem, r := socialFixture()
	mem.AddUser("me")

	recs, err := r.FriendsRecommendations(context.Background(), "me", 10)
	if err != nil {
		t.Fatalf("FriendsRecommendations: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("user without friends must get empty social signal, got %v", recs)
	}
}

func TestSocialRecall_TrendingAmongFriends(t *testing.T) {
	mem, r := socialFixture()
	now := time.Now()

	mem.Follow("me", "f1")
	mem.Follow("me", "f2")

	// within the 7-day window: 2 likes on hot (2*2=4), 1 buy of warm (5)
	mem.AddLike(core.Like{UserID: "f1", ProductID: "hot", CreatedAt: now.Add(-1 * 24 * time.Hour)})
	mem.AddLike(core.Like{UserID: "f2", ProductID: "hot", CreatedAt: now.Add(-2 * 24 * time.Hour)})
	mem.AddOrder(core.Order{
		ID: "o1", UserID: "f1", Status: core.OrderDelivered, CreatedAt: now.Add(-3 * 24 * time.Hour),
		Lines: []core.OrderLine{{ProductID: "warm", Quantity: 1}},
	})
	// outside the window
	mem.AddLike(core.Like{UserID: "f1", ProductID: "stale", CreatedAt: now.Add(-10 * 24 * time.Hour)})

	recs, err := r.TrendingAmongFriends(context.Background(), "me", 15)
	if err != nil {
		t.Fatalf("TrendingAmongFriends: %v", err)
	}

	if len(recs) != 2 {
		t.Fatalf("got %v, want warm and hot", recs)
	}
	if recs[0].ProductID != "warm" || recs[0].Score != 5 {
		t.Errorf("top = %+v, want warm score 5", recs[0])
	}
	if recs[1].ProductID != "hot" || recs[1].Score != 4 {
		t.Errorf("second = %+v, want hot score 4", recs[1])
	}
}

func TestFriendsTrendingSource_Recall(t *testing.T) {
	mem, r := socialFixture()
	now := time.Now()

	mem.Follow("me", "f1")
	mem.AddLike(core.Like{UserID: "f1", ProductID: "hot", CreatedAt: now.Add(-1 * 24 * time.Hour)})

	src := &FriendsTrendingSource{Social: r}
	items, err := src.Recall(context.Background(), &core.RecommendContext{UserID: "me", Now: now})
	if err != nil {
		t.Fatalf("Recall: %v", err)
	}
	if len(items) != 1 || items[0].ID != "hot" {
		t.Fatalf("items = %v, want [hot]", items)
	}
	if got := items[0].Sources(); len(got) != 1 || got[0] != core.TagFriendsTrending {
		t.Errorf("sources = %v, want [%s]", got, core.TagFriendsTrending)
	}
}

func TestSocialRecall_TrendingAmongFriends_PendingOrdersExcluded(t *testing.T) {
	mem, r := socialFixture()
	now := time.Now()

	mem.Follow("me", "f1")
	mem.AddOrder(core.Order{
		ID: "o1", UserID: "f1", Status: core.OrderPending, CreatedAt: now,
		Lines: []core.OrderLine{{ProductID: "p1", Quantity: 1}},
	})

	recs, err := r.TrendingAmongFriends(context.Background(), "me", 15)
	if err != nil {
		t.Fatalf("TrendingAmongFriends: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("pending orders must not trend, got %v", recs)
	}
}
