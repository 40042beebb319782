package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/explain"
	"github.com/rushteam/shoprank/filter"
	"github.com/rushteam/shoprank/pipeline"
	"github.com/rushteam/shoprank/rerank"
)

func scenario() []*core.Product {
	return []*core.Product{
		{
			ID:           "B",
			Name:         "Good Earbuds",
			Price:        1200,
			Rating:       4.2,
			ReviewCount:  800,
			ReviewTexts:  []string{"Good value"},
			Features:     []string{"wireless"},
			DeliveryTime: "3-5 days",
			Warranty:     "6 months",
		},
		{
			ID:           "A",
			Name:         "Premium Earbuds",
			Price:        1800,
			Rating:       4.8,
			ReviewCount:  1200,
			ReviewTexts:  []string{"Excellent, love it!"},
			Features:     []string{"wireless", "noise cancelling"},
			DeliveryTime: "2 days",
			Warranty:     "2 years",
		},
	}
}

func earbudsQuery() core.Query {
	return core.Query{
		Target:   "wireless earbuds",
		Category: "electronics",
		Filters:  core.Filters{MaxPrice: core.Float(2000)},
	}
}

func TestEngine_Rank_Scenario(t *testing.T) {
	e := New(nil, zaptest.NewLogger(t))

	res, err := e.Rank(context.Background(), earbudsQuery(), scenario())
	require.NoError(t, err)
	require.Len(t, res.RankedItems, 2)

	first, second := res.RankedItems[0], res.RankedItems[1]
	assert.Equal(t, "A", first.Product.ID)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 70.6, first.Score)
	assert.Equal(t, "B", second.Product.ID)
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, 62.6, second.Score)
	assert.Greater(t, first.Score, second.Score)

	assert.Equal(t, "4.5|4.8", first.Labels["rating_boost"])
	assert.Equal(t, "noise cancelling", first.Labels["premium_feature"])

	require.Len(t, res.TopItems, 2)
	assert.Equal(t, "A", res.TopItems[0].ID)

	assert.Equal(t, 2, res.Metrics.TotalProducts)
	assert.InDelta(t, 66.6, res.Metrics.AverageScore, 1e-9)
	assert.Equal(t, [core.HistogramBuckets]int{0, 0, 0, 2, 0}, res.Metrics.ScoreDistribution)
	assert.Equal(t, "wireless", res.Metrics.TopPerformingFeatures[0])
	assert.Len(t, res.Metrics.WeakestAspects, 3)

	assert.Contains(t, res.Explanation, "Premium Earbuds")
	assert.Contains(t, res.Explanation, "clear winner")
	assert.Contains(t, res.Explanation, "good choice")
}

func TestEngine_Rank_NothingPasses(t *testing.T) {
	e := &Engine{}
	products := []*core.Product{{ID: "1", Name: "Obscure", Price: 100, Rating: 4.5, ReviewCount: 2}}

	res, err := e.Rank(context.Background(), core.Query{}, products)
	require.NoError(t, err)

	assert.Empty(t, res.RankedItems)
	assert.Empty(t, res.TopItems)
	assert.Equal(t, 0, res.Metrics.TotalProducts)
	assert.Equal(t, 0.0, res.Metrics.AverageScore)
	assert.Equal(t, [core.HistogramBuckets]int{}, res.Metrics.ScoreDistribution)
	assert.Empty(t, res.Metrics.TopPerformingFeatures)
	assert.Empty(t, res.Metrics.WeakestAspects)
	assert.Equal(t, explain.EmptyMessage, res.Explanation)
}

func TestEngine_Rank_Idempotent(t *testing.T) {
	e := New(nil, nil, core.WithConcurrency(2))

	first, err := e.Rank(context.Background(), earbudsQuery(), scenario())
	require.NoError(t, err)
	for range 5 {
		again, err := e.Rank(context.Background(), earbudsQuery(), scenario())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEngine_Rank_TopNAndHistogram(t *testing.T) {
	var products []*core.Product
	for i := range 12 {
		products = append(products, &core.Product{
			ID:           string(rune('a' + i)),
			Name:         "Item",
			Price:        float64(100 * (i + 1)),
			Rating:       3 + float64(i%5)*0.4,
			ReviewCount:  10 * (i + 1),
			DeliveryTime: "next day",
			Warranty:     "1 year",
		})
	}

	e := New(nil, nil, core.WithTopN(3))
	res, err := e.Rank(context.Background(), core.Query{Filters: core.Filters{MaxPrice: core.Float(1500)}}, products)
	require.NoError(t, err)

	assert.Len(t, res.TopItems, 3)
	for i, p := range res.TopItems {
		assert.Equal(t, res.RankedItems[i].Product.ID, p.ID)
	}

	total := 0
	for _, c := range res.Metrics.ScoreDistribution {
		total += c
	}
	assert.Equal(t, len(res.RankedItems), total)

	for i, it := range res.RankedItems {
		assert.Equal(t, i+1, it.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, res.RankedItems[i-1].Score, it.Score)
		}
	}
}

func TestEngine_Rank_CustomFilters(t *testing.T) {
	expr, err := filter.NewExprFilter(`item.id != "A"`)
	require.NoError(t, err)

	e := New(&pipeline.Pipeline{Nodes: []pipeline.Node{
		&filter.FilterNode{Filters: []filter.Filter{&filter.ThresholdFilter{}, expr}},
	}}, nil)

	res, err := e.Rank(context.Background(), earbudsQuery(), scenario())
	require.NoError(t, err)
	require.Len(t, res.RankedItems, 1)
	assert.Equal(t, "B", res.RankedItems[0].Product.ID)
	assert.Equal(t, 1, res.RankedItems[0].Rank)
}

func TestEngine_Rank_RerankRunsAfterScoring(t *testing.T) {
	// rerank 节点即使配置在 filter 之前，也在打分排序之后执行
	e := New(&pipeline.Pipeline{Nodes: []pipeline.Node{
		&rerank.TopNNode{N: 1},
		&filter.FilterNode{Filters: []filter.Filter{&filter.ThresholdFilter{}}},
	}}, nil)

	res, err := e.Rank(context.Background(), earbudsQuery(), scenario())
	require.NoError(t, err)
	require.Len(t, res.RankedItems, 1)
	assert.Equal(t, "A", res.RankedItems[0].Product.ID)
	assert.Equal(t, 1, res.Metrics.TotalProducts)
}

func TestEngine_Rank_Errors(t *testing.T) {
	t.Run("invalid weights", func(t *testing.T) {
		w := core.DefaultWeights()
		w.Rating = 0.9
		_, err := (&Engine{}).Rank(context.Background(), core.Query{}, scenario(), core.WithWeights(w))
		require.Error(t, err)
		assert.True(t, core.IsInvalidInput(err))
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := (&Engine{}).Rank(ctx, core.Query{}, scenario())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestEngine_Rank_RequestID(t *testing.T) {
	ctx := core.ContextWithRequestID(context.Background(), "req-1")
	res, err := (&Engine{}).Rank(ctx, earbudsQuery(), scenario())
	require.NoError(t, err)
	assert.Len(t, res.RankedItems, 2)
}
