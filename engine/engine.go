// Package engine 串起排序核心的完整数据流：
//
//	商品 -> 过滤 -> 逐项打分（并发，保序汇合）-> 加权汇总 -> 稳定排序/名次 -> Top-N -> 统计 -> 说明
//
// 引擎本身不做任何网络或磁盘 I/O，每次调用独立派生配置，不持有跨请求的可变状态。
package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/explain"
	"github.com/rushteam/shoprank/filter"
	"github.com/rushteam/shoprank/metrics"
	"github.com/rushteam/shoprank/pipeline"
	"github.com/rushteam/shoprank/pkg/logger"
	"github.com/rushteam/shoprank/rank"
	"github.com/rushteam/shoprank/rerank"
)

// Engine 是排序核心的门面。零值可用：过滤阶段默认只有阈值过滤。
type Engine struct {
	// Pipeline 是可配置的节点链，为 nil 时使用 DefaultPipeline。
	// 打分排序节点固定插在 filter 类节点之后、其余节点（rerank / postprocess）之前。
	Pipeline *pipeline.Pipeline

	// Options 是引擎级的默认配置（例如 TopN、并发度），先于每次调用的 opts 应用。
	Options []core.ConfigOption

	Logger *zap.Logger
}

// DefaultPipeline 返回默认节点链：评论数、评分、预算三项硬阈值。
func DefaultPipeline() *pipeline.Pipeline {
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&filter.FilterNode{Filters: []filter.Filter{&filter.ThresholdFilter{}}},
		},
	}
}

// New 创建引擎。p 为 nil 时使用默认节点链。
func New(p *pipeline.Pipeline, log *zap.Logger, opts ...core.ConfigOption) *Engine {
	return &Engine{
		Pipeline: p,
		Options:  opts,
		Logger:   log,
	}
}

// Rank 对候选商品排序并生成完整结果。
//
// 正常输入不会失败：缺失的评论、预算、无法解析的文本都退化为中性分。
// 仅在 ctx 被取消、权重非法或配置的节点出错时返回错误。
func (e *Engine) Rank(
	ctx context.Context,
	q core.Query,
	products []*core.Product,
	opts ...core.ConfigOption,
) (*core.RankingResult, error) {
	log := logger.OrNop(e.Logger)

	all := make([]core.ConfigOption, 0, len(e.Options)+len(opts))
	all = append(all, e.Options...)
	all = append(all, opts...)

	rctx := core.NewRankContext(q, all...)
	rctx.RequestID = core.RequestIDFromContext(ctx)
	if err := rctx.Config.Weights.Validate(); err != nil {
		return nil, err
	}

	log = log.With(zap.String("request_id", rctx.RequestID))

	items := core.NewItems(products)
	log.Debug("rank start", zap.Int("candidates", len(items)), zap.String("query", q.Target))

	items, err := e.stages().Run(ctx, rctx, items)
	if err != nil {
		return nil, fmt.Errorf("rank pipeline: %w", err)
	}

	res := Assemble(items, rctx.Config.TopN)

	if len(items) > 0 {
		log.Debug("rank done",
			zap.Int("ranked", len(items)),
			zap.String("top_id", items[0].Product.ID),
			zap.Float64("top_score", items[0].Score),
		)
	} else {
		log.Debug("rank done", zap.Int("ranked", 0))
	}
	return res, nil
}

// stages 在 filter 类节点之后插入打分排序节点。
func (e *Engine) stages() *pipeline.Pipeline {
	configured := e.Pipeline
	if configured == nil {
		configured = DefaultPipeline()
	}

	var pre, post []pipeline.Node
	for _, n := range configured.Nodes {
		if n.Kind() == pipeline.KindFilter {
			pre = append(pre, n)
			continue
		}
		post = append(post, n)
	}

	p := &pipeline.Pipeline{Nodes: pre}
	return p.Append(&rank.WeightedNode{}).Append(post...)
}

// Assemble 由已排序的 items 组装 RankingResult：Top-N、统计与说明。
func Assemble(items []*core.Item, topN int) *core.RankingResult {
	ranked := make([]core.RankedItem, 0, len(items))
	for _, it := range items {
		ranked = append(ranked, it.Ranked())
	}

	head := rerank.Top(items, topN)
	top := make([]core.Product, 0, len(head))
	for _, it := range head {
		top = append(top, *it.Product)
	}

	m := metrics.Calculate(ranked, topN)
	return &core.RankingResult{
		RankedItems: ranked,
		TopItems:    top,
		Metrics:     m,
		Explanation: explain.Generate(ranked, m),
	}
}
