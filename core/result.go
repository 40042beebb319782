package core

// Dimension 是打分维度名称。
type Dimension string

const (
	DimensionRating      Dimension = "rating"
	DimensionSentiment   Dimension = "sentiment"
	DimensionReviewCount Dimension = "reviewCount"
	DimensionPrice       Dimension = "price"
	DimensionRelevance   Dimension = "relevance"
	DimensionCredibility Dimension = "credibility"
	DimensionDelivery    Dimension = "delivery"
	DimensionWarranty    Dimension = "warranty"
)

// Dimensions 是全部维度的固定顺序，明细、汇总与并列决胜都按此顺序。
var Dimensions = []Dimension{
	DimensionRating,
	DimensionSentiment,
	DimensionReviewCount,
	DimensionPrice,
	DimensionRelevance,
	DimensionCredibility,
	DimensionDelivery,
	DimensionWarranty,
}

// DimensionScore 是单个维度的打分记录，Score 恒在 [0,100]。
type DimensionScore struct {
	Dimension Dimension `json:"dimension"`
	Score     float64   `json:"score"`
	Raw       *float64  `json:"raw,omitempty"`
	Weight    float64   `json:"weight"`
}

// ScoreBreakdown 是单个商品的分项明细，Scores 按 Dimensions 顺序排列。
type ScoreBreakdown struct {
	Scores              []DimensionScore `json:"scores"`
	SentimentConfidence float64          `json:"sentimentConfidence"`
}

// Get 返回维度 d 的记录；不存在时返回零值记录。
func (b ScoreBreakdown) Get(d Dimension) DimensionScore {
	for _, s := range b.Scores {
		if s.Dimension == d {
			return s
		}
	}
	return DimensionScore{Dimension: d}
}

// RankedItem 是最终输出的排序结果项。
type RankedItem struct {
	Product   Product           `json:"product"`
	Score     float64           `json:"score"`
	Breakdown ScoreBreakdown    `json:"breakdown"`
	Rank      int               `json:"rank"`
	Labels    map[string]string `json:"labels,omitempty"`
}

// HistogramBuckets 是得分分布的桶数，步长 20。
const HistogramBuckets = 5

// Metrics 是整批排序结果的统计。
type Metrics struct {
	TotalProducts         int                   `json:"totalProducts"`
	AverageScore          float64               `json:"averageScore"`
	ScoreDistribution     [HistogramBuckets]int `json:"scoreDistribution"`
	TopPerformingFeatures []string              `json:"topPerformingFeatures"`
	WeakestAspects        []Dimension           `json:"weakestAspects"`
}

// RankingResult 是一次排序调用的完整输出，只包含可序列化的值。
type RankingResult struct {
	RankedItems []RankedItem `json:"rankedItems"`
	TopItems    []Product    `json:"topItems"`
	Metrics     Metrics      `json:"metrics"`
	Explanation string       `json:"explanation"`
}
