package core

import "strings"

// Intent 是查询意图。
type Intent string

const (
	IntentSearch Intent = "search"
	IntentHelp   Intent = "help"
	IntentFilter Intent = "filter"
)

// Filters 是查询级的硬约束，nil 表示未指定。
type Filters struct {
	MaxPrice  *float64 `json:"maxPrice,omitempty" yaml:"max_price"`
	MinRating *float64 `json:"minRating,omitempty" yaml:"min_rating"`
	Features  []string `json:"features,omitempty" yaml:"features"`
}

// Query 是已经结构化的购物查询，由上游解析器产出，一次排序调用内不可变。
type Query struct {
	Target   string  `json:"product" yaml:"product"`
	Category string  `json:"category" yaml:"category"`
	Filters  Filters `json:"filters" yaml:"filters"`
	Intent   Intent  `json:"intent" yaml:"intent"`
}

// Key 返回检索用的归一化商品关键字。
func (q Query) Key() string {
	return strings.ToLower(strings.TrimSpace(q.Target))
}

// Float 返回 v 的指针，便于构造可选字段。
func Float(v float64) *float64 {
	return &v
}
