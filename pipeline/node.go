package pipeline

import (
	"context"

	"github.com/rushteam/shoprank/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindFilter      Kind = "filter"      // 过滤阶段：剔除不满足硬阈值的候选
	KindRank        Kind = "rank"        // 排序阶段：逐项打分、排序、标注名次
	KindReRank      Kind = "rerank"      // 重排阶段：在排序结果上截断或调序
	KindPostProcess Kind = "postprocess" // 后处理阶段
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用“输入 items -> 输出 items”的形态，方便 Filter 剔除、Rank 打分排序、ReRank 截断等操作。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RankContext,
		items []*core.Item,
	) ([]*core.Item, error)
}
