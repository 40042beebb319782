package score

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	credibilityMinReviews   = 3
	credibilityBase         = 70.0
	diverseLengthVariance   = 100.0
	uniformLengthVariance   = 20.0
	diverseLengthBonus      = 10.0
	uniformLengthPenalty    = 15.0
	repetitiveRatio         = 0.5
	maxRepetitiveWords      = 2
	repetitivePenalty       = 20.0
	perfectRating           = 5.0
	perfectSuspicionMin     = 10
	perfectSuspicionPenalty = 10.0
)

// templateWords 是刷评模板里高频出现的词，按整词计数。
var templateWords = []string{"great", "good", "excellent", "amazing", "perfect"}

// complaintWords 用于判断满分商品是否“零差评”。
var complaintWords = []string{"bad", "poor", "terrible", "worst", "broken", "disappointed"}

// 可信度命中的规则名，会写入商品的解释标签。
const (
	FlagDiverseLength = "diverse_length"
	FlagUniformLength = "uniform_length"
	FlagRepetitive    = "repetitive_words"
	FlagAllPerfect    = "all_perfect"
)

// Credibility 是评论可信度分析结果。
type Credibility struct {
	Score float64
	Flags []string
}

// AnalyzeCredibility 用文本模式估计评论的真实度。
// 少于 3 条评论时返回中性分。
func AnalyzeCredibility(rating float64, reviews []string) Credibility {
	if len(reviews) < credibilityMinReviews {
		return Credibility{Score: NeutralScore}
	}

	score := credibilityBase
	var flags []string

	lengths := make([]float64, len(reviews))
	for i, r := range reviews {
		lengths[i] = float64(utf8.RuneCountInString(r))
	}
	_, variance := meanVariance(lengths)
	switch {
	case variance > diverseLengthVariance:
		score += diverseLengthBonus
		flags = append(flags, FlagDiverseLength)
	case variance < uniformLengthVariance:
		score -= uniformLengthPenalty
		flags = append(flags, FlagUniformLength)
	}

	counts := wordCounts(strings.ToLower(strings.Join(reviews, " ")))
	repetitive := 0
	limit := repetitiveRatio * float64(len(reviews))
	for _, w := range templateWords {
		if float64(counts[w]) > limit {
			repetitive++
		}
	}
	if repetitive > maxRepetitiveWords {
		score -= repetitivePenalty
		flags = append(flags, FlagRepetitive)
	}

	if rating == perfectRating && len(reviews) > perfectSuspicionMin && !anyComplaint(reviews) {
		score -= perfectSuspicionPenalty
		flags = append(flags, FlagAllPerfect)
	}

	return Credibility{Score: clamp(score, 0, 100), Flags: flags}
}

// wordCounts 按非字母数字字符切词后计数。
func wordCounts(lower string) map[string]int {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	counts := make(map[string]int, len(words))
	for _, w := range words {
		counts[w]++
	}
	return counts
}

func anyComplaint(reviews []string) bool {
	for _, r := range reviews {
		lower := strings.ToLower(r)
		for _, w := range complaintWords {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}
