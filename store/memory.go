package store

import (
	"context"
	"sync"
	"time"

	"github.com/rushteam/shoprank/core"
)

// DefaultCleanupInterval 是过期 key 的后台清理周期。
const DefaultCleanupInterval = time.Minute

// MemoryStore 是内存实现的 Store，用于单实例部署/开发/测试。
// 支持 TTL：读取时发现过期立即删除（惰性淘汰），另有后台定期清理。
// 进程重启后数据丢失。
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time

	interval time.Duration
	clean    *time.Ticker
	done  chan struct{}
	once  sync.Once
}

type entry struct {
	value    []byte
	expireAt time.Time // 零值表示永不过期
}

func (e entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && now.After(e.expireAt)
}

// MemoryOption 配置 MemoryStore。
type MemoryOption func(*MemoryStore)

// WithClock 替换时钟，用于测试过期逻辑。
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) { m.now = now }
}

// WithCleanupInterval 设置后台清理周期，<= 0 时关闭后台清理，只保留惰性淘汰。
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(m *MemoryStore) { m.interval = d }
}

func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	ms := &MemoryStore{
		data:     make(map[string]entry),
		now:      time.Now,
		interval: DefaultCleanupInterval,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}
	if ms.interval > 0 {
		ms.clean = time.NewTicker(ms.interval)
		go ms.cleanup()
	}
	return ms
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return nil, core.ErrStoreNotFound
	}
	if e.expired(m.now()) {
		delete(m.data, key)
		return nil, core.ErrStoreNotFound
	}
	return e.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{value: value}
	if ttl > 0 {
		e.expireAt = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Len 返回当前保存的 key 数量（可能包含尚未被淘汰的过期 key）。
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Flush 清空全部数据。
func (m *MemoryStore) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]entry)
}

// Sweep 删除全部已过期的 key，返回删除数量。
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for k, e := range m.data {
		if e.expired(now) {
			delete(m.data, k)
			n++
		}
	}
	return n
}

func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.clean != nil {
			m.clean.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanup() {
	for {
		select {
		case <-m.clean.C:
			m.Sweep()
		case <-m.done:
			return
		}
	}
}
