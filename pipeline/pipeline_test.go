package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/glowrec/glowrec/core"
)

type appendNode struct {
	name string
	err  error
}

func (n *appendNode) Name() string { return n.name }
func (n *appendNode) Kind() Kind   { return KindRecall }

func (n *appendNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(n.name)), nil
}

func TestPipeline_RunSequencesNodes(t *testing.T) {
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "a"},
		&appendNode{name: "b"},
	}}

	items, err := p.Run(context.Background(), &core.RecommendContext{}, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "b" {
		t.Fatalf("items = %v, want output of nodes in order", items)
	}
}

func TestPipeline_RunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{
		&appendNode{name: "a"},
		&appendNode{name: "b", err: boom},
		&appendNode{name: "c"},
	}}

	if _, err := p.Run(context.Background(), &core.RecommendContext{}, nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestConfig_BuildPipeline(t *testing.T) {
	f := NewNodeFactory()
	f.Register("test.append", func(cfg map[string]interface{}) (Node, error) {
		name, _ := cfg["name"].(string)
		return &appendNode{name: name}, nil
	})

	cfg := &Config{}
	cfg.Pipeline.Name = "test"
	cfg.Pipeline.Nodes = []NodeConfig{
		{Type: "test.append", Config: map[string]interface{}{"name": "a"}},
	}

	p, err := cfg.BuildPipeline(f)
	if err != nil {
		t.Fatalf("BuildPipeline: %v", err)
	}
	if len(p.Nodes) != 1 || p.Nodes[0].Name() != "a" {
		t.Fatalf("built pipeline = %+v", p.Nodes)
	}

	cfg.Pipeline.Nodes = append(cfg.Pipeline.Nodes, NodeConfig{Type: "test.unknown"})
	if _, err := cfg.BuildPipeline(f); err == nil {
		t.Error("unknown node type must fail the build")
	}
}
