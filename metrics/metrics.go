// Package metrics 计算整批排序结果的统计信息。
//
// 每个指标都是对已排序结果的纯函数折叠，互不依赖，可单独测试；
// 空集合时返回零值（平均分 0、全零分布、空列表）。
package metrics

import (
	"math"
	"sort"

	"github.com/rushteam/shoprank/core"
)

const (
	bucketWidth     = 20.0
	maxTopFeatures  = 5
	weakestAspectsN = 3
)

// Calculate 汇总全部指标。ranked 须为排序后的结果，topN 为参与特性统计的头部数量。
func Calculate(ranked []core.RankedItem, topN int) core.Metrics {
	return core.Metrics{
		TotalProducts:         len(ranked),
		AverageScore:          AverageScore(ranked),
		ScoreDistribution:     Histogram(ranked),
		TopPerformingFeatures: TopFeatures(ranked, topN),
		WeakestAspects:        WeakestAspects(ranked),
	}
}

// AverageScore 返回总分均值，空集合为 0。
func AverageScore(ranked []core.RankedItem) float64 {
	if len(ranked) == 0 {
		return 0
	}
	sum := 0.0
	for _, it := range ranked {
		sum += it.Score
	}
	return sum / float64(len(ranked))
}

// Bucket 返回分数所在的直方图桶：floor(score/20)，截断到 [0,4]。
func Bucket(score float64) int {
	b := int(math.Floor(score / bucketWidth))
	if b < 0 {
		return 0
	}
	if b >= core.HistogramBuckets {
		return core.HistogramBuckets - 1
	}
	return b
}

// Histogram 按 20 分步长统计分布，各桶之和等于 len(ranked)。
func Histogram(ranked []core.RankedItem) [core.HistogramBuckets]int {
	var h [core.HistogramBuckets]int
	for _, it := range ranked {
		h[Bucket(it.Score)]++
	}
	return h
}

// TopFeatures 统计前 topN 个商品的特性出现次数，按次数降序取前 5 个；
// 次数相同按首次出现顺序。topN <= 0 时统计全部商品。
func TopFeatures(ranked []core.RankedItem, topN int) []string {
	head := ranked
	if topN > 0 && len(head) > topN {
		head = head[:topN]
	}

	counts := make(map[string]int)
	var order []string
	for _, it := range head {
		for _, f := range it.Product.Features {
			if _, ok := counts[f]; !ok {
				order = append(order, f)
			}
			counts[f]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > maxTopFeatures {
		order = order[:maxTopFeatures]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// DimensionMeans 返回每个维度在全部商品上的平均分，按 core.Dimensions 顺序。
func DimensionMeans(ranked []core.RankedItem) []core.DimensionScore {
	out := make([]core.DimensionScore, len(core.Dimensions))
	for i, d := range core.Dimensions {
		out[i].Dimension = d
		if len(ranked) == 0 {
			continue
		}
		sum := 0.0
		for _, it := range ranked {
			sum += it.Breakdown.Get(d).Score
		}
		out[i].Score = sum / float64(len(ranked))
	}
	return out
}

// WeakestAspects 返回平均分最低的 3 个维度；同分按 core.Dimensions 顺序。
func WeakestAspects(ranked []core.RankedItem) []core.Dimension {
	if len(ranked) == 0 {
		return []core.Dimension{}
	}

	means := DimensionMeans(ranked)
	sort.SliceStable(means, func(i, j int) bool {
		return means[i].Score < means[j].Score
	})

	n := min(weakestAspectsN, len(means))
	out := make([]core.Dimension, 0, n)
	for _, m := range means[:n] {
		out = append(out, m.Dimension)
	}
	return out
}
