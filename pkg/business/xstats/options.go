package xstats

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xretry"
)

const (
	// DefaultRecentLimit RecentOrders 未指定 limit 时的条数
	DefaultRecentLimit = 10

	// MaxRecentLimit RecentOrders 的 limit 上限
	MaxRecentLimit = 100

	// DefaultActiveWindow 活跃客户统计窗口
	DefaultActiveWindow = 30 * 24 * time.Hour

	// DefaultLoadTimeout 单次回源（含重试）的超时
	DefaultLoadTimeout = 10 * time.Second
)

type options struct {
	ttl          time.Duration
	loadTimeout  time.Duration
	activeWindow time.Duration
	location     *time.Location
	retryer      *xretry.Retryer
	clock        clock.Clock
	logger       xlog.Logger
	observer     xmetrics.Observer
}

// Option Service 配置项
type Option func(*options)

func defaultOptions() *options {
	return &options{
		loadTimeout:  DefaultLoadTimeout,
		activeWindow: DefaultActiveWindow,
		location:     time.Local,
		retryer: xretry.NewRetryer(
			xretry.WithAttempts(3),
			xretry.WithBackoff(xretry.NewFixedBackoff(100*time.Millisecond)),
			xretry.WithRetryIf(isTransient),
		),
		clock:    clock.New(),
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
	}
}

// isTransient ctx 取消与超时不重试
func isTransient(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// WithTTL 统计结果的缓存有效期，<= 0 使用缓存的默认有效期。
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithLoadTimeout 单次回源超时，<= 0 保持默认值。
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

// WithActiveWindow 活跃客户统计窗口，<= 0 保持默认值。
func WithActiveWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.activeWindow = d
		}
	}
}

// WithLocation 计算"今天"使用的时区
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.location = loc
		}
	}
}

func WithRetryer(r *xretry.Retryer) Option {
	return func(o *options) {
		if r != nil {
			o.retryer = r
		}
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
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
