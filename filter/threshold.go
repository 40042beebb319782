package filter

import (
	"context"

	"github.com/rushteam/shoprank/core"
)

// ThresholdFilter 按硬阈值过滤：评论数、评分、预算。
//
// 阈值取自 rctx.Config.Thresholds；MinReviews / MinRating 非 nil 时覆盖请求配置
// （用于在 Pipeline 配置中收紧阈值）。
type ThresholdFilter struct {
	MinReviews *int
	MinRating  *float64
}

func (f *ThresholdFilter) Name() string {
	return "filter.threshold"
}

func (f *ThresholdFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RankContext,
	item *core.Item,
) (bool, error) {
	t := core.DefaultThresholds()
	if rctx != nil {
		t = rctx.Config.Thresholds
	}
	if f.MinReviews != nil {
		t.MinReviews = *f.MinReviews
	}
	if f.MinRating != nil {
		t.MinRating = *f.MinRating
	}
	return !Passes(item.Product, t), nil
}

// Passes 判断商品是否满足全部阈值：
// reviewCount >= minReviews 且 rating >= minRating 且（无预算或 price <= maxPrice）。
func Passes(p *core.Product, t core.Thresholds) bool {
	if p.ReviewCount < t.MinReviews {
		return false
	}
	if p.Rating < t.MinRating {
		return false
	}
	if t.MaxPrice != nil && p.Price > *t.MaxPrice {
		return false
	}
	return true
}
