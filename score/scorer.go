package score

import (
	"math"
	"strings"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/pkg/utils"
)

const (
	confidenceFloor  = 0.7
	confidenceWeight = 0.3
)

// Evaluation 是单个商品的打分结果：分项明细、加权总分与解释标签。
type Evaluation struct {
	Breakdown core.ScoreBreakdown
	Total     float64
	Labels    map[string]utils.Label
}

// Evaluate 计算商品的八维明细与总分，只读 p 与 cfg。
func Evaluate(p *core.Product, cfg core.RankingConfig) Evaluation {
	sentiment := AnalyzeSentiment(p.ReviewTexts)
	credibility := AnalyzeCredibility(p.Rating, p.ReviewTexts)

	months, hasMonths := WarrantyMonths(p.Warranty)
	var warrantyRaw *float64
	if hasMonths {
		warrantyRaw = core.Float(float64(months))
	}

	w := cfg.Weights
	b := core.ScoreBreakdown{
		Scores: []core.DimensionScore{
			{Dimension: core.DimensionRating, Score: RatingScore(p.Rating), Raw: core.Float(p.Rating), Weight: w.Rating},
			{Dimension: core.DimensionSentiment, Score: sentiment.Score, Weight: w.Sentiment},
			{Dimension: core.DimensionReviewCount, Score: ReviewCountScore(p.ReviewCount), Raw: core.Float(float64(p.ReviewCount)), Weight: w.ReviewCount},
			{Dimension: core.DimensionPrice, Score: PriceScore(p.Price, cfg.Thresholds.MaxPrice), Raw: core.Float(p.Price), Weight: w.Price},
			{Dimension: core.DimensionRelevance, Score: RelevanceScore(p.Features), Raw: core.Float(float64(len(p.Features))), Weight: w.Relevance},
			{Dimension: core.DimensionCredibility, Score: credibility.Score, Weight: w.Credibility},
			{Dimension: core.DimensionDelivery, Score: DeliveryScore(p.DeliveryTime), Weight: w.Delivery},
			{Dimension: core.DimensionWarranty, Score: WarrantyScore(p.Warranty), Raw: warrantyRaw, Weight: w.Warranty},
		},
		SentimentConfidence: sentiment.Confidence,
	}

	labels := make(map[string]utils.Label)
	if boosts := ratingBoosts(p.Rating); len(boosts) > 0 {
		labels["rating_boost"] = utils.Label{Value: strings.Join(boosts, "|"), Source: "score.rating"}
	}
	if f, ok := PremiumFeature(p.Features); ok {
		labels["premium_feature"] = utils.Label{Value: f, Source: "score.relevance"}
	}
	if len(credibility.Flags) > 0 {
		labels["credibility_flags"] = utils.Label{Value: strings.Join(credibility.Flags, "|"), Source: "score.credibility"}
	}

	return Evaluation{
		Breakdown: b,
		Total:     Aggregate(b),
		Labels:    labels,
	}
}

// Aggregate 对明细加权求和，再按情感置信度折算（系数在 [0.7,1.0]），保留一位小数。
func Aggregate(b core.ScoreBreakdown) float64 {
	total := 0.0
	for _, s := range b.Scores {
		total += s.Score * s.Weight
	}
	total *= confidenceFloor + confidenceWeight*b.SentimentConfidence
	return clamp(math.Round(total*10)/10, 0, 100)
}
