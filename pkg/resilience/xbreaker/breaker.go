package xbreaker

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// 默认值
const (
	DefaultTimeout     = 30 * time.Second
	DefaultMaxRequests = 1
	DefaultThreshold   = 5
)

// Breaker 熔断器，并发安全
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[struct{}]
}

type options struct {
	trip        TripPolicy
	successful  func(err error) bool
	timeout     time.Duration
	interval    time.Duration
	maxRequests uint32
	logger      xlog.Logger
}

type Option func(*options)

// WithTripPolicy 默认连续失败 5 次
func WithTripPolicy(p TripPolicy) Option {
	return func(o *options) {
		if p != nil {
			o.trip = p
		}
	}
}

// WithSuccessPolicy fn 返回 true 的错误不计为失败。nil 错误总是成功。
func WithSuccessPolicy(fn func(err error) bool) Option {
	return func(o *options) {
		o.successful = fn
	}
}

// WithTimeout Open 保持多久后转为 HalfOpen
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithInterval Closed 状态下清零计数的周期，0 表示不清零
func WithInterval(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.interval = d
		}
	}
}

// WithMaxRequests HalfOpen 状态允许的探测请求数
func WithMaxRequests(n uint32) Option {
	return func(o *options) {
		if n > 0 {
			o.maxRequests = n
		}
	}
}

// WithLogger 记录状态变化
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New 创建熔断器
func New(name string, opts ...Option) *Breaker {
	o := &options{
		trip:        NewConsecutiveFailures(DefaultThreshold),
		timeout:     DefaultTimeout,
		maxRequests: DefaultMaxRequests,
		logger:      xlog.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	st := gobreaker.Settings{
		Name:        name,
		MaxRequests: o.maxRequests,
		Interval:    o.interval,
		Timeout:     o.timeout,
		ReadyToTrip: o.trip.ReadyToTrip,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log := o.logger.Info
			if to == gobreaker.StateOpen {
				log = o.logger.Warn
			}
			log(context.Background(), "circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	if o.successful != nil {
		successful := o.successful
		st.IsSuccessful = func(err error) bool {
			return err == nil || successful(err)
		}
	}
	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker[struct{}](st)}
}

// Do 在熔断器保护下执行 fn。ctx 已结束时不执行、不计数。
func (b *Breaker) Do(ctx context.Context, fn func() error) error {
	if fn == nil {
		return ErrNilFunc
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return wrap(err, b.name, b.cb.State())
}

func (b *Breaker) Name() string   { return b.name }
func (b *Breaker) State() State   { return b.cb.State() }
func (b *Breaker) Counts() Counts { return b.cb.Counts() }
