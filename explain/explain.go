// Package explain 把排序结果转成一段面向用户的推荐说明。
package explain

import (
	"fmt"
	"strings"

	"github.com/rushteam/shoprank/core"
)

// EmptyMessage 是没有商品通过过滤时的固定说明。
const EmptyMessage = "No products met the minimum criteria for ranking."

const (
	strengthThreshold = 80.0
	maxStrengths      = 3
	clearWinnerGap    = 5.0
	strongScore       = 80.0
	goodScore         = 60.0
)

// 优势规则按优先级排列。
var strengthRules = []struct {
	dimension core.Dimension
	phrase    string
}{
	{core.DimensionRating, "high rating"},
	{core.DimensionSentiment, "positive feedback"},
	{core.DimensionReviewCount, "many reviews"},
	{core.DimensionPrice, "excellent value"},
}

// Generate 生成说明：头名与得分、优势、与次名的差距、整体统计、结论。
// ranked 须为排序后的结果，m 为同一批结果的统计。
func Generate(ranked []core.RankedItem, m core.Metrics) string {
	if len(ranked) == 0 {
		return EmptyMessage
	}

	top := ranked[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "Top pick: %s with a score of %.1f/100.", top.Product.Name, top.Score)

	if s := Strengths(top.Breakdown); len(s) > 0 {
		fmt.Fprintf(&sb, " Strengths: %s.", strings.Join(s, ", "))
	}

	if len(ranked) > 1 {
		runner := ranked[1]
		gap := top.Score - runner.Score
		if gap > clearWinnerGap {
			fmt.Fprintf(&sb, " It is a clear winner, %.1f points ahead of %s.", gap, runner.Product.Name)
		} else {
			fmt.Fprintf(&sb, " It is a close race with %s, only %.1f points behind.", runner.Product.Name, gap)
		}
	}

	fmt.Fprintf(&sb, " Average score across %d products: %.1f.", m.TotalProducts, m.AverageScore)
	if len(m.TopPerformingFeatures) > 0 {
		fmt.Fprintf(&sb, " Most common feature among the top picks: %s.", m.TopPerformingFeatures[0])
	}
	if len(m.WeakestAspects) > 0 {
		fmt.Fprintf(&sb, " Weakest dimension overall: %s.", m.WeakestAspects[0])
	}

	fmt.Fprintf(&sb, " Verdict: %s.", Verdict(top.Score))
	return sb.String()
}

// Strengths 按优先级返回至多 3 个得分 >= 80 的优势描述。
func Strengths(b core.ScoreBreakdown) []string {
	var out []string
	for _, r := range strengthRules {
		if len(out) == maxStrengths {
			break
		}
		if b.Get(r.dimension).Score >= strengthThreshold {
			out = append(out, r.phrase)
		}
	}
	return out
}

// Verdict 按头名得分分档给出结论。
func Verdict(score float64) string {
	switch {
	case score >= strongScore:
		return "strong recommendation"
	case score >= goodScore:
		return "good choice"
	default:
		return "consider alternatives"
	}
}
