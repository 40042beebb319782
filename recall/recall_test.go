package recall

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/shoprank/core"
)

func productIDs(products []*core.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 8, c.Len())

	p, err := c.Get("4")
	require.NoError(t, err)
	assert.Equal(t, "Camera Pro Phone", p.Name)
	assert.Equal(t, 4289, p.ReviewCount)
	assert.NotEmpty(t, p.ReviewTexts)

	_, err = c.Get("404")
	assert.True(t, core.IsNotFound(err))
}

func TestCatalog_Recall(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name string
		q    core.Query
		want []string
	}{
		{
			name: "lookup with budget and features",
			q: core.Query{
				Target:  "Wireless Earbuds",
				Filters: core.Filters{MaxPrice: core.Float(5000), Features: []string{"wireless", "bluetooth"}},
			},
			want: []string{"1", "2"},
		},
		{
			name: "budget excludes expensive phone",
			q: core.Query{
				Target:  "smartphone",
				Filters: core.Filters{MaxPrice: core.Float(30000), Features: []string{"good camera", "multiple cameras"}},
			},
			want: []string{},
		},
		{
			name: "feature substring match is case insensitive",
			q: core.Query{
				Target:  "laptop bag",
				Filters: core.Filters{Features: []string{"Waterproof"}},
			},
			want: []string{"5"},
		},
		{
			name: "known key with no products",
			q:    core.Query{Target: "running shoes"},
			want: []string{},
		},
		{
			name: "unknown key falls back to default ids",
			q:    core.Query{Target: "desk lamp"},
			want: []string{"1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Recall(context.Background(), tt.q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, productIDs(got))
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	src := `
products:
  - id: "a"
    name: Alpha
    price: 10
    rating: 4
    review_count: 9
lookup:
  Alpha: ["a"]
`
	c, err := LoadCatalog(strings.NewReader(src))
	require.NoError(t, err)

	got, err := c.Recall(context.Background(), core.Query{Target: "alpha"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, productIDs(got))

	_, err = LoadCatalog(strings.NewReader("products:\n  - id: a\n  - id: a\n"))
	assert.Error(t, err)

	_, err = LoadCatalog(strings.NewReader("unknown_field: 1\n"))
	assert.Error(t, err)
}

type staticSource struct {
	name     string
	products []*core.Product
	err      error
	delay    time.Duration
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) Recall(ctx context.Context, _ core.Query) ([]*core.Product, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.products, s.err
}

func TestFanout_MergesInSourceOrder(t *testing.T) {
	a := &core.Product{ID: "a"}
	b := &core.Product{ID: "b"}
	c := &core.Product{ID: "c"}

	f := &Fanout{
		Sources: []Source{
			&staticSource{name: "slow", products: []*core.Product{b, a}, delay: 20 * time.Millisecond},
			&staticSource{name: "fast", products: []*core.Product{a, c}},
			&staticSource{name: "broken", err: errors.New("boom")},
		},
	}

	got, err := f.Recall(context.Background(), core.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, productIDs(got))
}

func TestFanout_Timeout(t *testing.T) {
	f := &Fanout{
		Timeout: 10 * time.Millisecond,
		Sources: []Source{
			&staticSource{name: "stuck", products: []*core.Product{{ID: "x"}}, delay: time.Second},
			&staticSource{name: "ok", products: []*core.Product{{ID: "y"}}},
		},
	}

	got, err := f.Recall(context.Background(), core.Query{})
	require.NoError(t, err)
	assert.Equal(t, []string{"y"}, productIDs(got))
}

type memStore struct {
	data map[string][]byte
}

func (s *memStore) Name() string { return "mem" }

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	return v, nil
}

func (s *memStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.data, key)
	return nil
}

func (s *memStore) Close() error { return nil }

func TestPinned(t *testing.T) {
	catalog := DefaultCatalog()
	s := &memStore{data: map[string][]byte{"pinned:wireless mouse": []byte(`["8","missing","7"]`)}}
	p := &Pinned{Store: s, Resolver: catalog}

	got, err := p.Recall(context.Background(), core.Query{Target: "Wireless Mouse"})
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "7"}, productIDs(got))

	got, err = p.Recall(context.Background(), core.Query{Target: "smartphone"})
	require.NoError(t, err)
	assert.Empty(t, got)

	f := &Fanout{Sources: []Source{p, catalog}}
	merged, err := f.Recall(context.Background(), core.Query{Target: "wireless mouse"})
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "7"}, productIDs(merged))
}
