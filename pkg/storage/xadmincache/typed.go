package xadmincache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// Key 带值类型的缓存键，在调用点恢复静态类型。
type Key[V any] struct {
	name string
}

// NewKey 创建类型化的键
func NewKey[V any](name string) Key[V] {
	return Key[V]{name: name}
}

// Name 返回底层字符串键
func (k Key[V]) Name() string {
	return k.name
}

// GetAs 读取并断言为 V。
//
// 存储值的动态类型不是 V 时按未命中处理并写 warn 日志，不会 panic。
func GetAs[V any](c *Cache, k Key[V]) (V, bool) {
	raw, ok := c.Get(k.name)
	return assertAs[V](c, k, raw, ok)
}

// PeekAs 与 GetAs 相同，但不计入命中与未命中统计。
// 用于回源前的二次检查，避免一次冷加载记两次未命中。
func PeekAs[V any](c *Cache, k Key[V]) (V, bool) {
	raw, ok := c.Peek(k.name)
	return assertAs[V](c, k, raw, ok)
}

func assertAs[V any](c *Cache, k Key[V], raw any, ok bool) (V, bool) {
	var zero V
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		c.logger.Warn(context.Background(), "cache value type mismatch",
			xlog.Key(k.name),
			slog.String("want", fmt.Sprintf("%T", zero)),
			slog.String("got", fmt.Sprintf("%T", raw)))
		return zero, false
	}
	return v, true
}

// SetAs 使用默认有效期写入类型化的值
func SetAs[V any](c *Cache, k Key[V], v V) {
	c.SetWithTTL(k.name, v, 0)
}

// SetAsWithTTL 写入类型化的值，ttl <= 0 时使用默认有效期
func SetAsWithTTL[V any](c *Cache, k Key[V], v V, ttl time.Duration) {
	c.SetWithTTL(k.name, v, ttl)
}
