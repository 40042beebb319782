package core

import (
	"context"
	"time"
)

// Store 是存储的领域接口，定义在领域层（core），由基础设施层（store）实现。
//
// 使用场景：
//   - 响应缓存：按原始查询文本缓存整条响应
//   - 黑名单：被运营下架的商品 ID 列表
//
// 实现：
//   - store.MemoryStore：进程内，惰性过期 + 定期清理
//   - store.RedisStore：依赖 Redis 的 key 过期
type Store interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// Get 读取单个 key 的值，不存在或已过期返回 ErrStoreNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set 写入单个 key-value，ttl <= 0 表示永不过期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除单个 key
	Delete(ctx context.Context, key string) error

	// Close 关闭连接/释放资源
	Close() error
}

// ErrStoreNotFound 表示 key 不存在或已过期
var ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Module == ModuleStore && domainErr.Code == ErrorCodeNotFound
}
