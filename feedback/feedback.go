// Package feedback 记录排序结果的曝光事件，供离线评估与调参使用。
package feedback

import (
	"context"
	"time"

	"github.com/rushteam/shoprank/core"
)

// Impression 是一条曝光事件：某次请求把某个商品展示在某个位置。
type Impression struct {
	RequestID string    `json:"request_id"`
	Query     string    `json:"query"`
	ProductID string    `json:"product_id"`
	Position  int       `json:"position"`
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// Collector 是曝光事件的收集接口。实现必须是并发安全的。
type Collector interface {
	Record(ctx context.Context, events []Impression) error
	Close() error
}

// Impressions 为前 topN 个排序结果生成曝光事件，Position 即名次。
func Impressions(requestID, query string, ranked []core.RankedItem, topN int, at time.Time) []Impression {
	n := len(ranked)
	if topN > 0 && topN < n {
		n = topN
	}
	out := make([]Impression, 0, n)
	for _, it := range ranked[:n] {
		out = append(out, Impression{
			RequestID: requestID,
			Query:     query,
			ProductID: it.Product.ID,
			Position:  it.Rank,
			Score:     it.Score,
			Timestamp: at,
		})
	}
	return out
}

// NopCollector 丢弃全部事件，未配置消息队列时使用。
type NopCollector struct{}

func (NopCollector) Record(context.Context, []Impression) error { return nil }
func (NopCollector) Close() error                               { return nil }
