// Package parallel 提供保序的并发 map 原语。
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Map 并发地对 in 的每个元素调用 fn，并按输入下标收集结果。
//
// 合并约定：out[i] 恒为 fn(in[i]) 的结果，与调度顺序无关，
// 因此后续的稳定排序在任意调度下都得到相同的结果。
//
// limit <= 0 表示不限制并发数。任一 fn 返回错误时 Map 返回第一个错误，
// 其余尚未开始的调用会看到已取消的 ctx。
func Map[T, R any](
	ctx context.Context,
	in []T,
	limit int,
	fn func(ctx context.Context, idx int, v T) (R, error),
) ([]R, error) {
	out := make([]R, len(in))
	if len(in) == 0 {
		return out, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}

	for i, v := range in {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			r, err := fn(egCtx, i, v)
			if err != nil {
				return err
			}
			// 每个 goroutine 只写自己的下标，无需加锁
			out[i] = r
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
