package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/shoprank/core"
)

// appendNode 在末尾追加一个商品，用于观察执行顺序。
type appendNode struct {
	id  string
	err error
}

func (n *appendNode) Name() string { return "test.append." + n.id }
func (n *appendNode) Kind() Kind   { return KindPostProcess }

func (n *appendNode) Process(_ context.Context, _ *core.RankContext, items []*core.Item) ([]*core.Item, error) {
	if n.err != nil {
		return nil, n.err
	}
	return append(items, core.NewItem(&core.Product{ID: n.id})), nil
}

func ids(items []*core.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Product.ID)
	}
	return out
}

func TestPipeline_Run(t *testing.T) {
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}, &appendNode{id: "b"}}}

	out, err := p.Run(context.Background(), core.NewRankContext(core.Query{}), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(out))
}

func TestPipeline_Run_Error(t *testing.T) {
	boom := errors.New("boom")
	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}, &appendNode{id: "b", err: boom}}}

	_, err := p.Run(context.Background(), core.NewRankContext(core.Query{}), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "node test.append.b")
}

func TestPipeline_Run_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &Pipeline{Nodes: []Node{&appendNode{id: "a"}}}
	_, err := p.Run(ctx, core.NewRankContext(core.Query{}), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_Append(t *testing.T) {
	base := &Pipeline{Nodes: []Node{&appendNode{id: "a"}}}
	ext := base.Append(&appendNode{id: "b"})

	assert.Len(t, base.Nodes, 1)
	assert.Len(t, ext.Nodes, 2)
}

func TestConfig_BuildPipeline(t *testing.T) {
	cfg, err := ParseYAML([]byte(`
pipeline:
  name: test
  nodes:
    - type: append
      config:
        id: x
    - type: append
      config:
        id: y
`))
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Pipeline.Name)

	f := NewNodeFactory()
	f.Register("append", func(c map[string]any) (Node, error) {
		id, _ := c["id"].(string)
		return &appendNode{id: id}, nil
	})
	assert.Equal(t, []string{"append"}, f.Types())

	p, err := cfg.BuildPipeline(f)
	require.NoError(t, err)

	out, err := p.Run(context.Background(), core.NewRankContext(core.Query{}), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids(out))
}

func TestConfig_BuildPipeline_UnknownType(t *testing.T) {
	cfg, err := ParseYAML([]byte("pipeline:\n  nodes:\n    - type: missing\n"))
	require.NoError(t, err)

	_, err = cfg.BuildPipeline(NewNodeFactory())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node type")
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := ParseYAML([]byte("pipeline: ["))
	assert.Error(t, err)
}
