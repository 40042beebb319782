package filter

import (
	"context"
	"fmt"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/pkg/dsl"
)

// ExprFilter 是规则过滤器：商品不满足 CEL 表达式时被过滤。
//
// 示例：
//
//	f, _ := filter.NewExprFilter(`item.store != "Budget Store" && item.price < 50000`)
type ExprFilter struct {
	prg *dsl.Program
}

// NewExprFilter 编译表达式；表达式非法时返回 INVALID_INPUT 错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.NewDomainError(core.ModuleEngine, core.ErrorCodeInvalidInput,
			fmt.Sprintf("filter expr %q: %v", expr, err))
	}
	return &ExprFilter{prg: prg}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RankContext,
	item *core.Item,
) (bool, error) {
	keep, err := f.prg.Evaluate(item.Product, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
