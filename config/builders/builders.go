// Package builders 注册内置 Node 的配置构建器。
//
//	import _ "github.com/rushteam/shoprank/config/builders"
package builders

import (
	"fmt"

	"github.com/rushteam/shoprank/config"
	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/filter"
	"github.com/rushteam/shoprank/pipeline"
	"github.com/rushteam/shoprank/pkg/conv"
	"github.com/rushteam/shoprank/rerank"
)

func init() {
	config.Register("filter", BuildFilterNode)
	config.Register("rerank.topn", BuildTopNNode)
}

// BuildFilterNode 构建不带 Store 的过滤节点（blacklist 只使用配置中的 ids）。
func BuildFilterNode(cfg map[string]any) (pipeline.Node, error) {
	return FilterNodeBuilder(nil)(cfg)
}

// FilterNodeBuilder 返回过滤节点构建器；s 非 nil 时 blacklist 额外从 Store 读取 key。
//
// 支持的过滤器：
//
//	- type: threshold        # min_reviews / min_rating 可选，覆盖请求阈值
//	- type: expr             # expr: CEL 表达式，返回 true 保留
//	- type: blacklist        # ids: [...], key: Store 中的 JSON ID 列表
func FilterNodeBuilder(s core.Store) pipeline.NodeBuilder {
	return func(cfg map[string]any) (pipeline.Node, error) {
		filtersConfig, ok := cfg["filters"].([]any)
		if !ok {
			return nil, fmt.Errorf("filters not found or invalid")
		}

		var adapter *filter.StoreAdapter
		if s != nil {
			adapter = filter.NewStoreAdapter(s)
		}

		filters := make([]filter.Filter, 0, len(filtersConfig))
		for _, fc := range filtersConfig {
			filterMap, ok := fc.(map[string]any)
			if !ok {
				continue
			}
			filterType := conv.ConfigGet(filterMap, "type", "")
			switch filterType {
			case "threshold":
				f := &filter.ThresholdFilter{}
				if _, ok := filterMap["min_reviews"]; ok {
					n := int(conv.ConfigGetInt64(filterMap, "min_reviews", core.DefaultMinReviews))
					f.MinReviews = &n
				}
				if _, ok := filterMap["min_rating"]; ok {
					f.MinRating = core.Float(conv.ConfigGetFloat64(filterMap, "min_rating", core.DefaultMinRating))
				}
				filters = append(filters, f)
			case "expr":
				expr := conv.ConfigGet(filterMap, "expr", "")
				if expr == "" {
					return nil, fmt.Errorf("expr filter: expr is required")
				}
				f, err := filter.NewExprFilter(expr)
				if err != nil {
					return nil, err
				}
				filters = append(filters, f)
			case "blacklist":
				ids := conv.SliceAnyToString(filterMap["ids"])
				if ids == nil {
					ids = []string{}
				}
				key := conv.ConfigGet(filterMap, "key", "")
				filters = append(filters, filter.NewBlacklistFilter(ids, adapter, key))
			default:
				return nil, fmt.Errorf("unknown filter type: %s", filterType)
			}
		}
		return &filter.FilterNode{Filters: filters}, nil
	}
}

// BuildTopNNode 构建截断节点；n 缺省时取请求配置的 TopN。
func BuildTopNNode(cfg map[string]any) (pipeline.Node, error) {
	n := conv.ConfigGetInt64(cfg, "n", 0)
	if n < 0 {
		return nil, fmt.Errorf("rerank.topn: n must not be negative")
	}
	return &rerank.TopNNode{N: int(n)}, nil
}
