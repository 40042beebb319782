package recall

import (
	"context"
	"encoding/json"

	"github.com/rushteam/shoprank/core"
)

// Resolver 按 ID 解析商品，Catalog 实现了该接口。
type Resolver interface {
	Get(id string) (*core.Product, error)
}

// Pinned 是运营置顶检索源：从 Store 读取按查询关键字配置的商品 ID 列表。
//   - key 为 Prefix + 查询关键字，值为 JSON 字符串数组，例如 ["7","8"]
//   - key 不存在时返回空结果
//   - 无法解析的 ID 被跳过
type Pinned struct {
	Store    core.Store
	Resolver Resolver
	Prefix   string // 默认 "pinned:"
}

func (r *Pinned) Name() string { return "recall.pinned" }

// Key 返回查询对应的存储 key。
func (r *Pinned) Key(q core.Query) string {
	prefix := r.Prefix
	if prefix == "" {
		prefix = "pinned:"
	}
	return prefix + q.Key()
}

func (r *Pinned) Recall(ctx context.Context, q core.Query) ([]*core.Product, error) {
	if r.Store == nil || r.Resolver == nil {
		return nil, nil
	}

	data, err := r.Store.Get(ctx, r.Key(q))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}

	out := make([]*core.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.Resolver.Get(id)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
