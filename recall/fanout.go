package recall

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/pkg/logger"
)

// Fanout 并发执行多个检索源并合并结果，本身也是一个 Source。
//
// 合并规则：按 Sources 顺序拼接，按商品 ID 去重（先出现的保留），
// 因此输出顺序与各源的完成顺序无关。
// 单个检索源超时或出错时视为空结果，不影响其他检索源。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个检索源的超时时间，0 表示不限制
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	Logger        *zap.Logger
}

func (n *Fanout) Name() string { return "recall.fanout" }

func (n *Fanout) Recall(ctx context.Context, q core.Query) ([]*core.Product, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}
	log := logger.OrNop(n.Logger)

	results := make([][]*core.Product, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		eg.Go(func() error {
			// 超时控制
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			products, err := src.Recall(recallCtx, q)
			if err != nil {
				// 超时或错误时返回空结果，不中断其他检索源
				log.Warn("recall source failed", zap.String("source", src.Name()), zap.Error(err))
				return nil
			}
			results[i] = products
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return mergeFirst(results), nil
}

// mergeFirst 按源顺序拼接并按 ID 去重，保留第一个出现的。
func mergeFirst(results [][]*core.Product) []*core.Product {
	seen := make(map[string]struct{})
	var out []*core.Product
	for _, products := range results {
		for _, p := range products {
			if p == nil {
				continue
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
