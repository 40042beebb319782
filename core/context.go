package core

import (
	"context"

	"github.com/rushteam/shoprank/pkg/utils"
)

type requestIDKey struct{}

// ContextWithRequestID 把请求 ID 放入 ctx，供链路日志关联。
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 读取请求 ID，不存在时返回空串。
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RankContext 承载查询与本次请求的排序配置，贯穿整个 Pipeline 透传。
// 构造后只读；各 Node 不应修改 Query 与 Config。
type RankContext struct {
	RequestID string

	Query  Query
	Config RankingConfig

	// Labels 是请求级标签，用于记录链路上的决策（例如被哪个过滤器剔除了多少商品）。
	Labels map[string]utils.Label
}

// NewRankContext 按查询派生配置并创建上下文。
func NewRankContext(q Query, opts ...ConfigOption) *RankContext {
	return &RankContext{
		Query:  q,
		Config: NewRankingConfig(q, opts...),
		Labels: make(map[string]utils.Label),
	}
}

// PutLabel 写入请求级 Label。
func (rctx *RankContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取请求级 Label。
func (rctx *RankContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
