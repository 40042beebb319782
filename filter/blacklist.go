package filter

import (
	"context"

	"github.com/rushteam/shoprank/core"
)

// BlacklistFilter 是黑名单过滤器，过滤掉被下架的商品。
type BlacklistFilter struct {
	// ItemIDs 是内存中的黑名单商品 ID 列表
	ItemIDs []string

	// Store 用于从存储中读取黑名单（可选）
	Store BlacklistStore

	// Key 是 Store 中的黑名单 key（可选）
	Key string
}

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单商品 ID 列表
	GetBlacklist(ctx context.Context, key string) ([]string, error)
}

// NewBlacklistFilter 创建一个黑名单过滤器。storeAdapter 可以为 nil。
func NewBlacklistFilter(itemIDs []string, storeAdapter *StoreAdapter, key string) *BlacklistFilter {
	var store BlacklistStore
	if storeAdapter != nil {
		store = storeAdapter
	}
	return &BlacklistFilter{
		ItemIDs: itemIDs,
		Store:   store,
		Key:     key,
	}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

func (f *BlacklistFilter) ShouldFilter(
	ctx context.Context,
	_ *core.RankContext,
	item *core.Item,
) (bool, error) {
	id := item.Product.ID

	// 从内存列表检查
	for _, bid := range f.ItemIDs {
		if id == bid {
			return true, nil
		}
	}

	// 从 Store 检查；读取失败或 key 不存在视为无黑名单
	if f.Store != nil && f.Key != "" {
		blacklist, err := f.Store.GetBlacklist(ctx, f.Key)
		if err == nil {
			for _, bid := range blacklist {
				if id == bid {
					return true, nil
				}
			}
		}
	}

	return false, nil
}
