package xmongo

import (
	"context"
	"time"

	"github.com/omeyang/mealkit/internal/storageopt"
	"github.com/omeyang/mealkit/pkg/resilience/xbreaker"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
)

// 集合名
const (
	CollectionMenuItems = "menu_items"
	CollectionMealPacks = "meal_packs"
	CollectionOrders    = "orders"
)

const (
	// DefaultQueryTimeout 读操作兜底超时。
	DefaultQueryTimeout = 30 * time.Second

	// DefaultWriteTimeout 写操作兜底超时。
	DefaultWriteTimeout = 60 * time.Second
)

// SlowQueryInfo 慢查询详细信息。
type SlowQueryInfo struct {
	Collection string
	Operation  string

	// Filter 查询条件。
	//
	// ⚠️ 可能含有客户 ID 等业务数据，写日志时注意脱敏。
	Filter any

	Duration time.Duration
}

// SlowQueryHook 慢查询回调，在请求路径上同步执行。
type SlowQueryHook func(ctx context.Context, info SlowQueryInfo)

// Options 存储配置。
type Options struct {
	// HealthTimeout 健康检查超时，默认 5 秒。
	HealthTimeout time.Duration

	// SlowQueryThreshold 慢查询阈值，0 表示禁用。
	SlowQueryThreshold time.Duration

	SlowQueryHook SlowQueryHook

	QueryTimeout time.Duration
	WriteTimeout time.Duration

	// Breaker 非 nil 时所有集合操作经过熔断器，健康检查除外。
	Breaker *xbreaker.Breaker

	Observer xmetrics.Observer
	Logger   xlog.Logger
}

// Option 配置函数。
type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		HealthTimeout: storageopt.DefaultHealthTimeout,
		QueryTimeout:  DefaultQueryTimeout,
		WriteTimeout:  DefaultWriteTimeout,
		Observer:      xmetrics.NoopObserver{},
		Logger:        xlog.Discard(),
	}
}

// WithHealthTimeout 设置健康检查超时。非正值被忽略。
func WithHealthTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.HealthTimeout = timeout
		}
	}
}

// WithSlowQueryThreshold 设置慢查询阈值。0 禁用，负值被忽略。
func WithSlowQueryThreshold(threshold time.Duration) Option {
	return func(o *Options) {
		if threshold >= 0 {
			o.SlowQueryThreshold = threshold
		}
	}
}

// WithSlowQueryHook 设置慢查询回调。
func WithSlowQueryHook(hook SlowQueryHook) Option {
	return func(o *Options) {
		o.SlowQueryHook = hook
	}
}

// WithQueryTimeout 设置读操作兜底超时。0 禁用，负值被忽略。
func WithQueryTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout >= 0 {
			o.QueryTimeout = timeout
		}
	}
}

// WithWriteTimeout 设置写操作兜底超时。0 禁用，负值被忽略。
func WithWriteTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout >= 0 {
			o.WriteTimeout = timeout
		}
	}
}

func WithObserver(observer xmetrics.Observer) Option {
	return func(o *Options) {
		if observer != nil {
			o.Observer = observer
		}
	}
}

func WithLogger(l xlog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithBreaker 设置熔断器，通常由 NewBreaker 创建。
func WithBreaker(b *xbreaker.Breaker) Option {
	return func(o *Options) {
		o.Breaker = b
	}
}
