package filter

import (
	"context"
	"testing"

	"github.com/glowrec/glowrec/core"
)

func newHistory(seen ...string) *core.History {
	h := core.NewHistory()
	for _, pid := range seen {
		h.AddLiked(pid)
	}
	return &h
}

func TestSeenFilter(t *testing.T) {
	f := &SeenFilter{}
	rctx := &core.RecommendContext{UserID: "u1", History: newHistory("seen")}

	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"history product filtered", "seen", true},
		{"fresh product passes", "fresh", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.ShouldFilter(context.Background(), rctx, core.NewItem(tt.id))
			if err != nil {
				t.Fatalf("ShouldFilter: %v", err)
			}
			if got != tt.want {
				t.Errorf("ShouldFilter(%s) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestSeenFilter_NoHistory(t *testing.T) {
	f := &SeenFilter{}
	got, err := f.ShouldFilter(context.Background(), &core.RecommendContext{UserID: "u1"}, core.NewItem("p1"))
	if err != nil {
		t.Fatalf("ShouldFilter: %v", err)
	}
	if got {
		t.Error("missing history must not filter anything")
	}
}

func TestRuleFilter(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "u1"}

	tests := []struct {
		name string
		expr string
		item func() *core.Item
		want bool
	}{
		{
			name: "empty expression never filters",
			expr: "",
			item: func() *core.Item { return core.NewItem("p1") },
			want: false,
		},
		{
			name: "score rule matches",
			expr: "item.score < 0.5",
			item: func() *core.Item {
				it := core.NewItem("p1")
				it.Score = 0.2
				return it
			},
			want: true,
		},
		{
			name: "score rule passes",
			expr: "item.score < 0.5",
			item: func() *core.Item {
				it := core.NewItem("p1")
				it.Score = 0.9
				return it
			},
			want: false,
		},
		{
			name: "broken expression fails open",
			expr: "this is not cel (",
			item: func() *core.Item { return core.NewItem("p1") },
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &RuleFilter{Expr: tt.expr}
			got, _ := f.ShouldFilter(context.Background(), rctx, tt.item())
			if got != tt.want {
				t.Errorf("ShouldFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterNode_LabelsFilteredItems(t *testing.T) {
	node := &FilterNode{Filters: []Filter{&SeenFilter{}}}
	rctx := &core.RecommendContext{UserID: "u1", History: newHistory("seen")}

	seen := core.NewItem("seen")
	fresh := core.NewItem("fresh")
	out, err := node.Process(context.Background(), rctx, []*core.Item{seen, fresh})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(out) != 1 || out[0].ID != "fresh" {
		t.Fatalf("got %v, want only fresh to survive", out)
	}
	lbl, ok := seen.Labels["filtered"]
	if !ok || lbl.Source != "filter.seen" {
		t.Errorf("filtered item must carry the filter name, got %+v", lbl)
	}
}
