package score

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var positiveWords = []string{
	"excellent", "great", "love", "amazing", "perfect",
	"best", "good", "awesome", "fantastic", "wonderful",
	"recommend", "happy", "satisfied", "quality", "comfortable",
	"fast", "reliable", "worth", "nice", "impressive",
}

var negativeWords = []string{
	"bad", "terrible", "broken", "poor", "worst",
	"awful", "waste", "disappointed", "defective", "horrible",
	"useless", "slow", "fake", "refund", "damaged",
	"stopped working", "problem", "avoid", "cheap", "return",
}

// emojiTable 覆盖常用的 emoji 呈现区段。
var emojiTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2600, Hi: 0x26FF, Stride: 1}, // 杂项符号
		{Lo: 0x2700, Hi: 0x27BF, Stride: 1}, // 装饰符号
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E6, Hi: 0x1F1FF, Stride: 1}, // 区域指示符（国旗）
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // 杂项符号与象形文字
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // 表情
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // 交通与地图
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // 补充符号与象形文字
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // 扩展 A
	},
}

const (
	lengthBonusCap      = 0.1
	exclamationStep     = 0.2
	exclamationBonusCap = 0.5
	emojiStep           = 0.1
	emojiBonusCap       = 0.3
	minConfidence       = 0.1
)

// Sentiment 是评论情感分析结果。Score 在 [0,100]，Confidence 在 [0,1]。
type Sentiment struct {
	Score      float64
	Confidence float64
}

// AnalyzeSentiment 对全部评论文本逐条打分后取均值。
// 置信度随单条得分的方差下降；没有评论文本时为中性分且置信度为 0。
func AnalyzeSentiment(reviews []string) Sentiment {
	if len(reviews) == 0 {
		return Sentiment{Score: NeutralScore, Confidence: 0}
	}

	scores := make([]float64, len(reviews))
	for i, r := range reviews {
		scores[i] = ReviewSentiment(r)
	}

	mean, variance := meanVariance(scores)
	return Sentiment{
		Score:      clamp(mean*100, 0, 100),
		Confidence: clamp(1-0.5*variance, minConfidence, 1),
	}
}

// ReviewSentiment 对单条评论打分，结果在 [0,1]。
//
// 基础分为正面词占命中词的比例（无命中时 0.5），再叠加长度、感叹号与 emoji 加成。
// 每个关键词按不区分大小写的子串匹配，命中一次计一次。
func ReviewSentiment(text string) float64 {
	lower := strings.ToLower(text)
	positive := countKeywords(lower, positiveWords)
	negative := countKeywords(lower, negativeWords)

	base := 0.5
	if total := positive + negative; total > 0 {
		base = float64(positive) / float64(total)
	}

	length := float64(utf8.RuneCountInString(text))
	lengthBonus := minf(length/100, 1) * lengthBonusCap
	exclamationBonus := minf(float64(strings.Count(text, "!"))*exclamationStep, exclamationBonusCap)
	emojiBonus := minf(float64(countEmoji(text))*emojiStep, emojiBonusCap)

	return clamp(base+lengthBonus+exclamationBonus+emojiBonus, 0, 1)
}

func countKeywords(lower string, words []string) int {
	n := 0
	for _, w := range words {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}

func countEmoji(text string) int {
	n := 0
	for _, r := range text {
		if unicode.Is(emojiTable, r) {
			n++
		}
	}
	return n
}

// meanVariance 返回总体均值与总体方差。调用方保证 xs 非空。
func meanVariance(xs []float64) (float64, float64) {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))

	sq := 0.0
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, sq / float64(len(xs))
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
