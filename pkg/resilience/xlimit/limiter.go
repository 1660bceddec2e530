package xlimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

var (
	ErrNilClient    = errors.New("xlimit: nil redis client")
	ErrInvalidLimit = errors.New("xlimit: rate, burst and period must be positive")
)

// DefaultPrefix Redis 键前缀
const DefaultPrefix = "mealkit:ratelimit:"

// Limit 每 Period 允许 Rate 次，突发上限 Burst
type Limit struct {
	Rate   int
	Burst  int
	Period time.Duration
}

// PerMinute Burst 与 Rate 相同
func PerMinute(n int) Limit {
	return Limit{Rate: n, Burst: n, Period: time.Minute}
}

func PerSecond(n int) Limit {
	return Limit{Rate: n, Burst: n, Period: time.Second}
}

func (l Limit) valid() bool {
	return l.Rate > 0 && l.Burst > 0 && l.Period > 0
}

type options struct {
	prefix     string
	failClosed bool
	logger     xlog.Logger
}

type Option func(*options)

func WithPrefix(p string) Option {
	return func(o *options) {
		if p != "" {
			o.prefix = p
		}
	}
}

// WithFailClosed Redis 出错时拒绝请求
func WithFailClosed() Option {
	return func(o *options) {
		o.failClosed = true
	}
}

func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Limiter 分布式限流器，并发安全
type Limiter struct {
	rl     *redis_rate.Limiter
	limit  Limit
	opts   *options
	logger xlog.Logger
}

// New 创建限流器
func New(rdb redis.UniversalClient, limit Limit, opts ...Option) (*Limiter, error) {
	if rdb == nil {
		return nil, ErrNilClient
	}
	if !limit.valid() {
		return nil, ErrInvalidLimit
	}
	o := &options{prefix: DefaultPrefix, logger: xlog.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &Limiter{
		rl:     redis_rate.NewLimiter(rdb),
		limit:  limit,
		opts:   o,
		logger: o.logger.With(xlog.Component("xlimit")),
	}, nil
}

// Allow 消耗 key 的一次配额。
//
// Redis 出错时：fail-open 返回允许的结果与 nil；fail-closed 返回拒绝的结果与错误。
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	res, err := l.rl.Allow(ctx, l.opts.prefix+key, redis_rate.Limit{
		Rate:   l.limit.Rate,
		Burst:  l.limit.Burst,
		Period: l.limit.Period,
	})
	if err != nil {
		err = fmt.Errorf("xlimit: allow %s: %w", key, err)
		if l.opts.failClosed {
			return Result{Allowed: false, Key: key}, err
		}
		l.logger.Warn(ctx, "rate limiter unavailable, allowing request", xlog.Key(key), xlog.Err(err))
		return Result{Allowed: true, Key: key}, nil
	}
	return Result{
		Allowed:    res.Allowed > 0,
		Limit:      l.limit.Rate,
		Remaining:  res.Remaining,
		ResetAt:    time.Now().Add(res.ResetAfter),
		RetryAfter: res.RetryAfter,
		Key:        key,
	}, nil
}

// Reset 清除 key 的计数
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.rl.Reset(ctx, l.opts.prefix+key)
}
