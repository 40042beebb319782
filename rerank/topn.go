package rerank

import (
	"context"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在排序后截取前 N 个商品。
// 通常在排序（Rank）节点之后使用。
//
// 示例：
//
//	p := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.WeightedNode{},     // 打分排序
//	        &rerank.TopNNode{N: 3},   // 截取 Top 3
//	    },
//	}
type TopNNode struct {
	// N 要保留的商品数量。
	// N <= 0 时取 rctx.Config.TopN；两者都 <= 0 则不截断。
	// N > len(items) 时返回全部商品。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	return Top(items, n.limit(rctx)), nil
}

func (n *TopNNode) limit(rctx *core.RankContext) int {
	if n.N > 0 {
		return n.N
	}
	if rctx != nil {
		return rctx.Config.TopN
	}
	return 0
}

// Top 返回 items 的前 n 个（共享底层数组）；n <= 0 时返回全部。
func Top(items []*core.Item, n int) []*core.Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
