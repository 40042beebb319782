package core

import (
	"fmt"
	"math"
)

const weightSumTolerance = 0.001

// 默认阈值。
const (
	DefaultMinReviews = 5
	DefaultMinRating  = 3.0
	DefaultTopN       = 5
)

// Weights 是八个维度的权重表，合计必须为 1.0。
type Weights struct {
	Rating      float64 `json:"rating" yaml:"rating"`
	Sentiment   float64 `json:"sentiment" yaml:"sentiment"`
	ReviewCount float64 `json:"reviewCount" yaml:"review_count"`
	Price       float64 `json:"price" yaml:"price"`
	Relevance   float64 `json:"relevance" yaml:"relevance"`
	Credibility float64 `json:"credibility" yaml:"credibility"`
	Delivery    float64 `json:"delivery" yaml:"delivery"`
	Warranty    float64 `json:"warranty" yaml:"warranty"`
}

// DefaultWeights 返回默认权重：评分、口碑优先，其次是评论量与价格。
func DefaultWeights() Weights {
	return Weights{
		Rating:      0.25,
		Sentiment:   0.20,
		ReviewCount: 0.15,
		Price:       0.15,
		Relevance:   0.10,
		Credibility: 0.05,
		Delivery:    0.05,
		Warranty:    0.05,
	}
}

// Of 返回维度 d 的权重。
func (w Weights) Of(d Dimension) float64 {
	switch d {
	case DimensionRating:
		return w.Rating
	case DimensionSentiment:
		return w.Sentiment
	case DimensionReviewCount:
		return w.ReviewCount
	case DimensionPrice:
		return w.Price
	case DimensionRelevance:
		return w.Relevance
	case DimensionCredibility:
		return w.Credibility
	case DimensionDelivery:
		return w.Delivery
	case DimensionWarranty:
		return w.Warranty
	default:
		return 0
	}
}

func (w Weights) sum() float64 {
	total := 0.0
	for _, d := range Dimensions {
		total += w.Of(d)
	}
	return total
}

// Validate 检查权重非负且合计为 1.0。
func (w Weights) Validate() error {
	for _, d := range Dimensions {
		if w.Of(d) < 0 {
			return NewDomainError(ModuleEngine, ErrorCodeInvalidInput,
				fmt.Sprintf("weight %s must be non-negative", d))
		}
	}
	if sum := w.sum(); math.Abs(sum-1.0) > weightSumTolerance {
		return NewDomainError(ModuleEngine, ErrorCodeInvalidInput,
			fmt.Sprintf("weights must sum to 1.0, got %.3f", sum))
	}
	return nil
}

// Thresholds 是过滤阶段的硬阈值。MaxPrice 为 nil 表示不限价。
type Thresholds struct {
	MinReviews int      `json:"minReviews"`
	MinRating  float64  `json:"minRating"`
	MaxPrice   *float64 `json:"maxPrice,omitempty"`
}

// DefaultThresholds 返回引擎自身的下限。
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinReviews: DefaultMinReviews,
		MinRating:  DefaultMinRating,
	}
}

// RankingConfig 是单次排序请求的完整配置，构造后不再修改。
type RankingConfig struct {
	Weights    Weights    `json:"weights"`
	Thresholds Thresholds `json:"thresholds"`

	// TopN 是结果中 topItems 的数量，默认 5。
	TopN int `json:"topN"`

	// Concurrency 是逐项打分的最大并发数，<= 0 表示不限制。
	Concurrency int `json:"concurrency"`
}

// ConfigOption 用于覆盖 RankingConfig 的默认值。
type ConfigOption func(*RankingConfig)

func WithWeights(w Weights) ConfigOption {
	return func(c *RankingConfig) { c.Weights = w }
}

func WithTopN(n int) ConfigOption {
	return func(c *RankingConfig) {
		if n > 0 {
			c.TopN = n
		}
	}
}

func WithConcurrency(n int) ConfigOption {
	return func(c *RankingConfig) { c.Concurrency = n }
}

func WithMinReviews(n int) ConfigOption {
	return func(c *RankingConfig) { c.Thresholds.MinReviews = n }
}

// NewRankingConfig 由查询派生本次请求的配置。
// 查询的 minRating 只能收紧引擎下限，不能放宽。
func NewRankingConfig(q Query, opts ...ConfigOption) RankingConfig {
	cfg := RankingConfig{
		Weights:    DefaultWeights(),
		Thresholds: DefaultThresholds(),
		TopN:       DefaultTopN,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if q.Filters.MaxPrice != nil {
		cfg.Thresholds.MaxPrice = Float(*q.Filters.MaxPrice)
	}
	if q.Filters.MinRating != nil && *q.Filters.MinRating > cfg.Thresholds.MinRating {
		cfg.Thresholds.MinRating = *q.Filters.MinRating
	}
	return cfg
}
