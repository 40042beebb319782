package core

import "github.com/rushteam/shoprank/pkg/utils"

// Product 是检索方提供的商品记录，排序链路只读不写。
//
// 前置条件（由检索方保证，链路内部不做防御性修正）：
//   - Price >= 0
//   - 0 <= Rating <= 5
//   - ReviewCount >= 0
type Product struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Price        float64  `json:"price" yaml:"price"`
	Rating       float64  `json:"rating" yaml:"rating"`
	ReviewCount  int      `json:"reviewCount" yaml:"review_count"`
	ReviewTexts  []string `json:"reviewTexts" yaml:"review_texts"`
	Features     []string `json:"features" yaml:"features"`
	DeliveryTime string   `json:"deliveryTime" yaml:"delivery_time"`
	Warranty     string   `json:"warranty" yaml:"warranty"`
	Store        string   `json:"store,omitempty" yaml:"store"`
	Category     string   `json:"category,omitempty" yaml:"category"`
}

// Item 是排序链路中的统一承载结构：商品、分数、分项明细、名次、标签。
// Labels 用于解释与观测；Score 用于排序决策。
type Item struct {
	Product   *Product
	Score     float64
	Breakdown ScoreBreakdown
	Rank      int
	Labels    map[string]utils.Label
}

func NewItem(p *Product) *Item {
	return &Item{
		Product: p,
		Labels:  make(map[string]utils.Label),
	}
}

// NewItems 按输入顺序包装一组商品。
func NewItems(products []*Product) []*Item {
	out := make([]*Item, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		out = append(out, NewItem(p))
	}
	return out
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// Ranked 导出为可序列化的 RankedItem。
func (it *Item) Ranked() RankedItem {
	return RankedItem{
		Product:   *it.Product,
		Score:     it.Score,
		Breakdown: it.Breakdown,
		Rank:      it.Rank,
		Labels:    utils.LabelValues(it.Labels),
	}
}
