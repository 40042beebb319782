// Package store 提供 core.Store 的实现：进程内的 MemoryStore 与基于 Redis 的 RedisStore。
//
// 注意：此包只包含实现，接口定义在 core 包。
//
// 示例：
//
//	var s core.Store = store.NewMemoryStore()
//	var r core.Store, _ = store.NewRedisStore("localhost:6379", 0)
package store

import "github.com/rushteam/shoprank/core"

var (
	_ core.Store = (*MemoryStore)(nil)
	_ core.Store = (*RedisStore)(nil)
)
