package xadmincache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/hashicorp/golang-lru/v2/simplelru"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// 未命中原因，写入 debug 日志的 reason 字段
const (
	missNotFound = "not_found"
	missExpired  = "expired"
)

// Cache 带 TTL 与容量上限的进程内缓存。
// 必须通过 New 创建，零值不可用。所有方法并发安全。
type Cache struct {
	mu sync.Mutex

	// entries 保存插入顺序：只用 Add/Peek/Remove/RemoveOldest，
	// 从不调用会调整顺序的 Get。
	entries *simplelru.LRU[string, entry]

	maxSize    int
	defaultTTL time.Duration
	clock      clock.Clock
	logger     xlog.Logger

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New 创建缓存。
//
// 默认容量 DefaultMaxSize，默认有效期 DefaultTTL。
// 容量 <= 0 返回 ErrInvalidSize，超过上限返回 ErrSizeExceedsMax，
// 默认有效期 <= 0 返回 ErrInvalidTTL。
func New(opts ...Option) (*Cache, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.maxSize <= 0 {
		return nil, ErrInvalidSize
	}
	if o.maxSize > maxSizeLimit {
		return nil, ErrSizeExceedsMax
	}
	if o.defaultTTL <= 0 {
		return nil, ErrInvalidTTL
	}

	// 设计决策: 不注册 onEvict 回调。simplelru 在 Remove/Purge 时同样会触发回调，
	// 容量淘汰由 Set 显式调用 RemoveOldest 完成，计数与日志在那里处理。
	entries, err := simplelru.NewLRU[string, entry](o.maxSize, nil)
	if err != nil {
		return nil, err
	}

	return &Cache{
		entries:    entries,
		maxSize:    o.maxSize,
		defaultTTL: o.defaultTTL,
		clock:      o.clock,
		logger:     o.logger.With(xlog.Component("xadmincache")),
	}, nil
}

// Get 返回未过期的值。
//
// 命中过期条目时顺带删除。命中不刷新写入时间，也不改变淘汰顺序。
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lookupLocked(key)
	if !ok {
		return nil, false
	}
	c.hits++
	c.logger.Debug(context.Background(), "cache hit", xlog.Key(key))
	return e.value, true
}

// Has 与 Get 的过期语义相同，但不返回值，也不计入命中统计。
func (c *Cache) Has(key string) bool {
	_, ok := c.Peek(key)
	return ok
}

// Peek 与 Get 的过期语义相同，但不计入命中与未命中统计。
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, reason := c.liveLocked(key)
	if reason != "" {
		return nil, false
	}
	return e.value, true
}

// lookupLocked 计数的读路径。调用方持有锁。
func (c *Cache) lookupLocked(key string) (entry, bool) {
	e, reason := c.liveLocked(key)
	if reason != "" {
		c.misses++
		if reason == missNotFound {
			c.logger.Debug(context.Background(), "cache miss",
				xlog.Key(key), slog.String("reason", missNotFound))
		}
		return entry{}, false
	}
	return e, true
}

// liveLocked 所有读路径共用：返回未过期条目，或未命中原因。
// 过期条目在此删除并写 debug 日志。调用方持有锁。
func (c *Cache) liveLocked(key string) (entry, string) {
	e, ok := c.entries.Peek(key)
	if !ok {
		return entry{}, missNotFound
	}
	if isExpired(e, c.clock.Now()) {
		c.entries.Remove(key)
		c.expirations++
		c.logger.Debug(context.Background(), "cache miss",
			xlog.Key(key), slog.String("reason", missExpired))
		return entry{}, missExpired
	}
	return e, ""
}

// Set 使用默认有效期写入。
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL 写入并指定有效期，ttl <= 0 时使用默认有效期。
//
// 新键且缓存已满时先淘汰插入最早的条目（warn 日志）。
// 覆盖已有键时把它移到最新位置，不淘汰、不改变条目数。
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.entries.Contains(key) && c.entries.Len() >= c.maxSize {
		if oldest, _, ok := c.entries.RemoveOldest(); ok {
			c.evictions++
			c.logger.Warn(context.Background(), "cache full, evicted oldest entry",
				xlog.Key(oldest), slog.Int("max_size", c.maxSize))
		}
	}

	// simplelru.Add 对已有键会更新值并移到链表头（最新）
	c.entries.Add(key, entry{value: value, storedAt: c.clock.Now(), ttl: ttl})
	c.logger.Debug(context.Background(), "cache set",
		xlog.Key(key), slog.Duration("ttl", ttl))
}

// Delete 删除指定键，返回删除前是否存在（含尚未清扫的过期条目）。
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.entries.Remove(key) {
		c.logger.Debug(context.Background(), "cache delete: key not present", xlog.Key(key))
		return false
	}
	c.logger.Debug(context.Background(), "cache delete", xlog.Key(key))
	return true
}

// ClearKey 等价于 Delete。
func (c *Cache) ClearKey(key string) bool {
	return c.Delete(key)
}

// Clear 清空所有条目，删除数量只写日志。
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.entries.Len()
	c.entries.Purge()
	c.logger.Info(context.Background(), "cache cleared", xlog.Count(int64(n)))
}

// Keys 按插入顺序（旧到新）返回未过期的键。只读扫描，不删除过期条目。
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	all := c.entries.Keys()
	keys := make([]string, 0, len(all))
	for _, k := range all {
		if e, ok := c.entries.Peek(k); ok && !isExpired(e, now) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Cleanup 删除所有过期条目，返回删除数量。
func (c *Cache) Cleanup() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for _, k := range c.entries.Keys() {
		if e, ok := c.entries.Peek(k); ok && isExpired(e, now) {
			c.entries.Remove(k)
			removed++
		}
	}
	c.expirations += uint64(removed)
	if removed > 0 {
		c.logger.Info(context.Background(), "cache cleanup", xlog.Count(int64(removed)))
	}
	return removed
}

// Len 返回原始条目数，包含尚未清扫的过期条目。
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
