package rank

import (
	"context"
	"sort"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/pipeline"
	"github.com/rushteam/shoprank/pkg/parallel"
	"github.com/rushteam/shoprank/score"
)

// WeightedNode 是加权多维打分排序 Node：
//   - 并发计算每个商品的 8 维分数与总分（按输入下标汇合，结果与调度无关）
//   - 写入 item.Score / item.Breakdown 与解释 labels
//   - 按总分稳定降序排序，同分保持输入顺序
//   - 名次从 1 开始连续编号
//
// 并发度取 rctx.Config.Concurrency，<= 0 表示不限制。
type WeightedNode struct{}

func (n *WeightedNode) Name() string        { return "rank.weighted" }
func (n *WeightedNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *WeightedNode) Process(
	ctx context.Context,
	rctx *core.RankContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	cfg := core.NewRankingConfig(core.Query{})
	if rctx != nil {
		cfg = rctx.Config
	}

	evals, err := parallel.Map(ctx, items, cfg.Concurrency,
		func(_ context.Context, _ int, it *core.Item) (score.Evaluation, error) {
			return score.Evaluate(it.Product, cfg), nil
		})
	if err != nil {
		return nil, err
	}

	for i, it := range items {
		ev := evals[i]
		it.Score = ev.Total
		it.Breakdown = ev.Breakdown
		for k, lbl := range ev.Labels {
			it.PutLabel(k, lbl)
		}
	}

	Sort(items)
	return items, nil
}

// Sort 按分数稳定降序排序并写入 1..N 的名次。
func Sort(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	for i, it := range items {
		it.Rank = i + 1
	}
}
