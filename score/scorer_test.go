package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rushteam/shoprank/core"
)

func premiumEarbuds() *core.Product {
	return &core.Product{
		ID:           "A",
		Name:         "Premium Earbuds",
		Price:        1800,
		Rating:       4.8,
		ReviewCount:  1200,
		ReviewTexts:  []string{"Excellent, love it!"},
		Features:     []string{"wireless", "noise cancelling"},
		DeliveryTime: "2 days",
		Warranty:     "2 years",
	}
}

func budgetEarbuds() *core.Product {
	return &core.Product{
		ID:           "B",
		Name:         "Good Earbuds",
		Price:        1200,
		Rating:       4.2,
		ReviewCount:  800,
		ReviewTexts:  []string{"Good value"},
		Features:     []string{"wireless"},
		DeliveryTime: "3-5 days",
		Warranty:     "6 months",
	}
}

func TestEvaluate(t *testing.T) {
	cfg := core.NewRankingConfig(core.Query{Filters: core.Filters{MaxPrice: core.Float(2000)}})

	a := Evaluate(premiumEarbuds(), cfg)
	b := Evaluate(budgetEarbuds(), cfg)

	assert.Equal(t, 70.6, a.Total)
	assert.Equal(t, 62.6, b.Total)

	require.Len(t, a.Breakdown.Scores, len(core.Dimensions))
	for i, d := range core.Dimensions {
		assert.Equal(t, d, a.Breakdown.Scores[i].Dimension)
		assert.Equal(t, cfg.Weights.Of(d), a.Breakdown.Scores[i].Weight)
	}
	assert.Equal(t, 100.0, a.Breakdown.Get(core.DimensionRating).Score)
	assert.InDelta(t, 24, a.Breakdown.Get(core.DimensionRelevance).Score, 1e-9)
	assert.Equal(t, 24.0, *a.Breakdown.Get(core.DimensionWarranty).Raw)
	assert.Equal(t, 1.0, a.Breakdown.SentimentConfidence)

	assert.Equal(t, "4.5|4.8", a.Labels["rating_boost"].Value)
	assert.Equal(t, "noise cancelling", a.Labels["premium_feature"].Value)
	assert.NotContains(t, b.Labels, "rating_boost")
	assert.NotContains(t, b.Labels, "premium_feature")
}

func TestEvaluate_NeutralDefaults(t *testing.T) {
	cfg := core.NewRankingConfig(core.Query{})
	e := Evaluate(&core.Product{ID: "x", Rating: 3, ReviewCount: 5, Warranty: "foo"}, cfg)

	assert.Equal(t, NeutralScore, e.Breakdown.Get(core.DimensionSentiment).Score)
	assert.Equal(t, 0.0, e.Breakdown.SentimentConfidence)
	assert.Equal(t, NeutralScore, e.Breakdown.Get(core.DimensionCredibility).Score)
	assert.Equal(t, NeutralScore, e.Breakdown.Get(core.DimensionPrice).Score)
	assert.Equal(t, 10.0, e.Breakdown.Get(core.DimensionWarranty).Score)
	assert.Nil(t, e.Breakdown.Get(core.DimensionWarranty).Raw)
	assert.Equal(t, 10.0, e.Breakdown.Get(core.DimensionDelivery).Score)
}

func TestAggregate(t *testing.T) {
	full := func(conf float64) core.ScoreBreakdown {
		w := core.DefaultWeights()
		b := core.ScoreBreakdown{SentimentConfidence: conf}
		for _, d := range core.Dimensions {
			b.Scores = append(b.Scores, core.DimensionScore{Dimension: d, Score: 100, Weight: w.Of(d)})
		}
		return b
	}

	assert.Equal(t, 100.0, Aggregate(full(1)))
	assert.Equal(t, 70.0, Aggregate(full(0)))
	assert.Equal(t, 85.0, Aggregate(full(0.5)))
	assert.Equal(t, 0.0, Aggregate(core.ScoreBreakdown{}))
}

func TestEvaluate_AllScoresInRange(t *testing.T) {
	texts := [][]string{
		nil,
		{"!!!!!!!!!! 😀😀😀😀😀"},
		{"terrible broken waste", "excellent", "meh", "great great great good good excellent amazing perfect"},
		repeat("great good excellent amazing perfect", 12),
	}
	maxPrices := []*float64{nil, core.Float(0), core.Float(100), core.Float(100000)}

	for _, rating := range []float64{0, 2.5, 4.5, 4.8, 5} {
		for _, reviews := range []int{0, 5, 1001, 50000} {
			for _, rt := range texts {
				for _, mp := range maxPrices {
					p := &core.Product{
						Rating:       rating,
						ReviewCount:  reviews,
						Price:        100,
						ReviewTexts:  rt,
						Features:     []string{"premium", "waterproof", "a", "b", "c", "d", "e", "f", "g", "h", "i"},
						DeliveryTime: "same day",
						Warranty:     "10 years",
					}
					cfg := core.NewRankingConfig(core.Query{Filters: core.Filters{MaxPrice: mp}})
					e := Evaluate(p, cfg)
					for _, s := range e.Breakdown.Scores {
						assert.GreaterOrEqual(t, s.Score, 0.0, "%s", s.Dimension)
						assert.LessOrEqual(t, s.Score, 100.0, "%s", s.Dimension)
					}
					assert.GreaterOrEqual(t, e.Total, 0.0)
					assert.LessOrEqual(t, e.Total, 100.0)
				}
			}
		}
	}
}
