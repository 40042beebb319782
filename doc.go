// Package shoprank 是一个多维度商品排序工具包。
//
// 设计要点：
// - Pipeline-first: 过滤、打分排序、截断通过 Node 串联（Filter → Rank → ReRank）
// - Labels-first: 打分标签全链路透传，用于 explain / 观测
// - 纯计算: 排序核心不做 I/O，检索、缓存、投递在 server 外层完成
package shoprank

import (
	"context"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/engine"
	"github.com/rushteam/shoprank/pipeline"
)

// 轻量 facade：便于用户直接 import "shoprank" 使用核心抽象。
type (
	Pipeline      = pipeline.Pipeline
	Node          = pipeline.Node
	Kind          = pipeline.Kind
	Product       = core.Product
	Query         = core.Query
	RankingResult = core.RankingResult
	ConfigOption  = core.ConfigOption
)

const (
	KindFilter      = pipeline.KindFilter
	KindRank        = pipeline.KindRank
	KindReRank      = pipeline.KindReRank
	KindPostProcess = pipeline.KindPostProcess
)

// Rank 使用默认节点链对 products 排序。
func Rank(ctx context.Context, q Query, products []*Product, opts ...ConfigOption) (*RankingResult, error) {
	return (&engine.Engine{}).Rank(ctx, q, products, opts...)
}
