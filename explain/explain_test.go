package explain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rushteam/shoprank/core"
)

func breakdown(scores map[core.Dimension]float64) core.ScoreBreakdown {
	var b core.ScoreBreakdown
	for _, d := range core.Dimensions {
		b.Scores = append(b.Scores, core.DimensionScore{Dimension: d, Score: scores[d]})
	}
	return b
}

func TestGenerate_Empty(t *testing.T) {
	assert.Equal(t, EmptyMessage, Generate(nil, core.Metrics{}))
	assert.Equal(t, "No products met the minimum criteria for ranking.", Generate([]core.RankedItem{}, core.Metrics{}))
}

func TestGenerate(t *testing.T) {
	top := core.RankedItem{
		Product: core.Product{Name: "Premium Earbuds"},
		Score:   70.6,
		Breakdown: breakdown(map[core.Dimension]float64{
			core.DimensionRating:      100,
			core.DimensionSentiment:   85,
			core.DimensionReviewCount: 68,
			core.DimensionPrice:       10,
		}),
		Rank: 1,
	}
	runner := core.RankedItem{Product: core.Product{Name: "Good Earbuds"}, Score: 62.6, Rank: 2}
	m := core.Metrics{
		TotalProducts:         2,
		AverageScore:          66.6,
		TopPerformingFeatures: []string{"wireless"},
		WeakestAspects:        []core.Dimension{core.DimensionPrice},
	}

	got := Generate([]core.RankedItem{top, runner}, m)

	assert.Contains(t, got, "Premium Earbuds")
	assert.Contains(t, got, "70.6")
	assert.Contains(t, got, "Strengths: high rating, positive feedback.")
	assert.Contains(t, got, "clear winner")
	assert.Contains(t, got, "Good Earbuds")
	assert.Contains(t, got, "66.6")
	assert.Contains(t, got, "wireless")
	assert.Contains(t, got, "Weakest dimension overall: price.")
	assert.Contains(t, got, "Verdict: good choice.")
}

func TestGenerate_CloseRaceSingleItem(t *testing.T) {
	a := core.RankedItem{Product: core.Product{Name: "A"}, Score: 82}
	b := core.RankedItem{Product: core.Product{Name: "B"}, Score: 78}

	race := Generate([]core.RankedItem{a, b}, core.Metrics{TotalProducts: 2, AverageScore: 80})
	assert.Contains(t, race, "close race")
	assert.Contains(t, race, "strong recommendation")

	single := Generate([]core.RankedItem{a}, core.Metrics{TotalProducts: 1, AverageScore: 82})
	assert.NotContains(t, single, "close race")
	assert.NotContains(t, single, "clear winner")
}

func TestStrengths(t *testing.T) {
	tests := []struct {
		name   string
		scores map[core.Dimension]float64
		want   []string
	}{
		{
			name: "capped at three in priority order",
			scores: map[core.Dimension]float64{
				core.DimensionRating:      80,
				core.DimensionSentiment:   90,
				core.DimensionReviewCount: 95,
				core.DimensionPrice:       99,
			},
			want: []string{"high rating", "positive feedback", "many reviews"},
		},
		{
			name: "skips weak dimensions",
			scores: map[core.Dimension]float64{
				core.DimensionRating: 79.9,
				core.DimensionPrice:  80,
			},
			want: []string{"excellent value"},
		},
		{
			name:   "none",
			scores: map[core.Dimension]float64{},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strengths(breakdown(tt.scores)))
		})
	}
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, "strong recommendation", Verdict(80))
	assert.Equal(t, "good choice", Verdict(79.9))
	assert.Equal(t, "good choice", Verdict(60))
	assert.Equal(t, "consider alternatives", Verdict(59.9))
}
