// Package cache 提供按原始查询文本缓存整条响应的 get-or-compute 缓存。
package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/pkg/logger"
)

// DefaultTTL 是缓存条目的默认有效期。
const DefaultTTL = 10 * time.Minute

// DefaultPrefix 是缓存 key 前缀。
const DefaultPrefix = "chat:"

// ResponseCache 把 T 以 JSON 形式保存在 core.Store 中。
//
// 过期由 Store 负责：MemoryStore 在下一次读取时惰性淘汰，RedisStore 依赖 key 过期。
// Store 读写失败时退化为直接计算，不影响请求。
type ResponseCache[T any] struct {
	Store  core.Store
	TTL    time.Duration
	Prefix string
	Logger *zap.Logger
}

// New 创建缓存；ttl <= 0 时使用 DefaultTTL。
func New[T any](s core.Store, ttl time.Duration, log *zap.Logger) *ResponseCache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ResponseCache[T]{
		Store:  s,
		TTL:    ttl,
		Prefix: DefaultPrefix,
		Logger: log,
	}
}

// Key 返回原始消息对应的缓存 key。
func (c *ResponseCache[T]) Key(message string) string {
	return c.Prefix + message
}

// Get 读取缓存；未命中、已过期或无法解码时返回 false。
func (c *ResponseCache[T]) Get(ctx context.Context, message string) (T, bool) {
	var zero T
	data, err := c.Store.Get(ctx, c.Key(message))
	if err != nil {
		if !core.IsStoreNotFound(err) {
			logger.OrNop(c.Logger).Warn("cache get failed", zap.String("store", c.Store.Name()), zap.Error(err))
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.OrNop(c.Logger).Warn("cache decode failed", zap.Error(err))
		return zero, false
	}
	return v, true
}

// Set 写入缓存，失败时只记录日志。
func (c *ResponseCache[T]) Set(ctx context.Context, message string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.OrNop(c.Logger).Warn("cache encode failed", zap.Error(err))
		return
	}
	if err := c.Store.Set(ctx, c.Key(message), data, c.TTL); err != nil {
		logger.OrNop(c.Logger).Warn("cache set failed", zap.String("store", c.Store.Name()), zap.Error(err))
	}
}

// GetOrCompute 命中时返回缓存值与 true；否则调用 fn 计算、写入并返回 false。
// fn 出错时不写缓存。
func (c *ResponseCache[T]) GetOrCompute(
	ctx context.Context,
	message string,
	fn func(ctx context.Context) (T, error),
) (T, bool, error) {
	if v, ok := c.Get(ctx, message); ok {
		return v, true, nil
	}

	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}
	c.Set(ctx, message, v)
	return v, false, nil
}

// Invalidate 删除单条缓存。
func (c *ResponseCache[T]) Invalidate(ctx context.Context, message string) error {
	return c.Store.Delete(ctx, c.Key(message))
}
