package recall

import (
	"context"

	"github.com/rushteam/shoprank/core"
)

// Source 表示一个可复用的检索源（目录/运营置顶/...）。
// 排序核心不关心候选来自哪里，只消费检索源产出的商品序列。
type Source interface {
	Name() string
	Recall(ctx context.Context, q core.Query) ([]*core.Product, error)
}
