package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprank/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv 获取或创建 CEL 环境，定义 item / query 两个变量
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("query", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的商品规则表达式，使用 CEL (Common Expression Language) 语法。
// 编译一次，可在多个 goroutine 中并发求值。
//
// 可用变量：
//   - item.id / item.name / item.price / item.rating / item.review_count
//   - item.features / item.review_texts（字符串列表）
//   - item.delivery_time / item.warranty / item.store / item.category
//   - query.product / query.category / query.features
//
// 示例：
//   - `item.price < 5000`
//   - `item.rating >= 4.0 && item.review_count > 100`
//   - `"wireless" in item.features`
//   - `item.store != "Budget Store"`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 解析并编译表达式。表达式必须返回 bool。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	if t := ast.OutputType(); !t.IsExactType(cel.BoolType) && !t.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", t)
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Evaluate 对商品求值。
func (p *Program) Evaluate(product *core.Product, rctx *core.RankContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(product, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(p *core.Product, rctx *core.RankContext) map[string]any {
	item := map[string]any{
		"id":            p.ID,
		"name":          p.Name,
		"price":         p.Price,
		"rating":        p.Rating,
		"review_count":  int64(p.ReviewCount),
		"features":      stringsOrEmpty(p.Features),
		"review_texts":  stringsOrEmpty(p.ReviewTexts),
		"delivery_time": p.DeliveryTime,
		"warranty":      p.Warranty,
		"store":         p.Store,
		"category":      p.Category,
	}

	query := map[string]any{
		"product":  "",
		"category": "",
		"features": []string{},
	}
	if rctx != nil {
		query["product"] = rctx.Query.Target
		query["category"] = rctx.Query.Category
		query["features"] = stringsOrEmpty(rctx.Query.Filters.Features)
	}

	return map[string]any{
		"item":  item,
		"query": query,
	}
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
