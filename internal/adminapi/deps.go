package adminapi

import (
	"context"
	"errors"
	"time"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/business/xstats"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xlimit"
	"github.com/omeyang/mealkit/pkg/storage/xadmincache"
)

var (
	ErrEmptyToken  = errors.New("adminapi: empty admin token")
	ErrMissingDeps = errors.New("adminapi: stats, meals and cache are required")
)

// StatsService 由 *xstats.Service 实现
type StatsService interface {
	DashboardStats(ctx context.Context) (xstats.DashboardStats, error)
	RecentOrders(ctx context.Context, limit int) ([]xstats.OrderSummary, error)
	MenuStatus(ctx context.Context) (xstats.MenuStatus, error)
}

// MealService 由 *xmeal.Service 实现
type MealService interface {
	CreateOrder(ctx context.Context, req xmeal.CreateOrderRequest) (xmeal.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, next xmeal.OrderStatus) (xmeal.Order, error)
	PackBalance(ctx context.Context, customerID string) (int, error)
}

// CacheAdmin 由 *xadmincache.Cache 实现
type CacheAdmin interface {
	Stats() xadmincache.Stats
	Keys() []string
	Clear()
	Delete(key string) bool
	Cleanup() int
}

var (
	_ StatsService = (*xstats.Service)(nil)
	_ MealService  = (*xmeal.Service)(nil)
	_ CacheAdmin   = (*xadmincache.Cache)(nil)
)

// HealthFunc 返回 nil 表示依赖可用
type HealthFunc func(ctx context.Context) error

// Deps 业务依赖
type Deps struct {
	Stats StatsService
	Meals MealService
	Cache CacheAdmin
}

// DefaultHealthTimeout /healthz 调用 HealthFunc 的超时
const DefaultHealthTimeout = 3 * time.Second

type options struct {
	logger        xlog.Logger
	observer      xmetrics.Observer
	health        HealthFunc
	healthTimeout time.Duration
	limiter       *xlimit.Limiter
}

type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:        xlog.Discard(),
		observer:      xmetrics.NoopObserver{},
		healthTimeout: DefaultHealthTimeout,
	}
}

func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithHealthCheck /healthz 额外检查的依赖（如数据库）。
func WithHealthCheck(fn HealthFunc, timeout time.Duration) Option {
	return func(o *options) {
		o.health = fn
		if timeout > 0 {
			o.healthTimeout = timeout
		}
	}
}

// WithRateLimit 按 token 限流 /admin 下的请求，认证之后执行。
func WithRateLimit(l *xlimit.Limiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}
