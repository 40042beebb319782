package score

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// 维度打分用到的常量。
const (
	NeutralScore = 50.0

	ratingBoostThreshold   = 4.5
	ratingBoostMultiplier  = 1.2
	ratingTopThreshold     = 4.8
	ratingTopMultiplier    = 1.3
	popularReviewThreshold = 1000
	popularReviewBonus     = 1.1
	priceDecay             = 2.5
	premiumMultiplier      = 1.2
)

// PremiumFeatures 是高端特性集合，按不区分大小写的子串匹配。
var PremiumFeatures = []string{"waterproof", "noise cancelling", "wireless charging", "premium"}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// RatingScore 把 0-5 星评分映射到 [0,100]。
// >= 4.5 乘 1.2，>= 4.8 再乘 1.3，两档依次叠加。
func RatingScore(rating float64) float64 {
	base := rating / 5 * 100
	if rating >= ratingBoostThreshold {
		base *= ratingBoostMultiplier
	}
	if rating >= ratingTopThreshold {
		base *= ratingTopMultiplier
	}
	return clamp(base, 0, 100)
}

// ratingBoosts 返回命中的加成档位，用于解释标签。
func ratingBoosts(rating float64) []string {
	var out []string
	if rating >= ratingBoostThreshold {
		out = append(out, "4.5")
	}
	if rating >= ratingTopThreshold {
		out = append(out, "4.8")
	}
	return out
}

// ReviewCountScore 以对数压缩评论数：log10(n+1)*20，超过 1000 条再乘 1.1。
func ReviewCountScore(count int) float64 {
	s := math.Min(100, math.Log10(float64(count)+1)*20)
	if count > popularReviewThreshold {
		s = math.Min(100, s*popularReviewBonus)
	}
	return clamp(s, 0, 100)
}

// PriceScore 对价格占预算比例做指数衰减：100 * e^(-2.5*ratio)。
// 无预算时返回中性分，超出预算为 0。
func PriceScore(price float64, maxPrice *float64) float64 {
	if maxPrice == nil {
		return NeutralScore
	}
	if price > *maxPrice {
		return 0
	}
	ratio := 0.0
	if *maxPrice > 0 {
		ratio = price / *maxPrice
	}
	return clamp(100*math.Exp(-priceDecay*ratio), 0, 100)
}

// RelevanceScore 每个特性 10 分（上限 100），含高端特性时乘 1.2。
func RelevanceScore(features []string) float64 {
	base := math.Min(100, float64(len(features))*10)
	if _, ok := PremiumFeature(features); ok {
		base *= premiumMultiplier
	}
	return clamp(base, 0, 100)
}

// PremiumFeature 返回第一个命中高端特性集合的特性。
// 子串匹配：例如 "premiumcare" 也会命中 "premium"。
func PremiumFeature(features []string) (string, bool) {
	for _, f := range features {
		lower := strings.ToLower(f)
		for _, p := range PremiumFeatures {
			if strings.Contains(lower, p) {
				return f, true
			}
		}
	}
	return "", false
}

type deliveryRule struct {
	patterns []string
	score    float64
}

// deliveryRules 按优先级排列，第一个命中的规则生效。
var deliveryRules = []deliveryRule{
	{patterns: []string{"same day", "1 day"}, score: 100},
	{patterns: []string{"2-3", "2 days"}, score: 80},
	{patterns: []string{"3-5", "3 days"}, score: 60},
	{patterns: []string{"1 week"}, score: 40},
	{patterns: []string{"2 week"}, score: 20},
}

const fallbackBucketScore = 10.0

// DeliveryScore 按配送时效文本分档，无法识别时为 10。
func DeliveryScore(deliveryTime string) float64 {
	lower := strings.ToLower(deliveryTime)
	for _, rule := range deliveryRules {
		for _, p := range rule.patterns {
			if strings.Contains(lower, p) {
				return rule.score
			}
		}
	}
	return fallbackBucketScore
}

var (
	monthPattern = regexp.MustCompile(`(?i)(\d+)\s*-?\s*month`)
	yearPattern  = regexp.MustCompile(`(?i)(\d+)\s*-?\s*year`)
)

// WarrantyMonths 从保修文本中解析月数：优先取 "month" 前的整数，否则取 "year" 前的整数乘 12。
func WarrantyMonths(warranty string) (int, bool) {
	if m := monthPattern.FindStringSubmatch(warranty); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, true
		}
	}
	if m := yearPattern.FindStringSubmatch(warranty); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n * 12, true
		}
	}
	return 0, false
}

// WarrantyScore 按保修月数分档，无法解析时为 10。
func WarrantyScore(warranty string) float64 {
	months, _ := WarrantyMonths(warranty)
	switch {
	case months >= 24:
		return 100
	case months >= 12:
		return 80
	case months >= 6:
		return 60
	case months >= 3:
		return 40
	case months >= 1:
		return 20
	default:
		return fallbackBucketScore
	}
}
