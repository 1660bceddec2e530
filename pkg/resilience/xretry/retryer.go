package xretry

import (
	"context"
	"math"
	"time"

	retry "github.com/avast/retry-go/v5"
)

const defaultAttempts = 3

// Retryer 重试执行器，创建后只读，可并发使用。
type Retryer struct {
	attempts uint
	backoff  Backoff
	retryIf  func(error) bool
	onRetry  func(attempt int, err error)
}

// Option Retryer 配置项
type Option func(*Retryer)

// WithAttempts 总尝试次数（含首次），小于 1 视为 1。
func WithAttempts(n int) Option {
	return func(r *Retryer) {
		r.attempts = uint(max(n, 1))
	}
}

func WithBackoff(b Backoff) Option {
	return func(r *Retryer) {
		if b != nil {
			r.backoff = b
		}
	}
}

// WithRetryIf 额外的重试条件，IsRetryable 为 false 的错误始终不重试。
func WithRetryIf(fn func(error) bool) Option {
	return func(r *Retryer) {
		r.retryIf = fn
	}
}

// WithOnRetry 每次失败且即将重试时回调，attempt 从 1 开始。
func WithOnRetry(fn func(attempt int, err error)) Option {
	return func(r *Retryer) {
		r.onRetry = fn
	}
}

// NewRetryer 默认 3 次尝试，指数退避。
func NewRetryer(opts ...Option) *Retryer {
	r := &Retryer{
		attempts: defaultAttempts,
		backoff:  NewExponentialBackoff(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Attempts 返回总尝试次数
func (r *Retryer) Attempts() int {
	return int(min(r.attempts, math.MaxInt32))
}

// Do 执行 fn 直到成功、遇到不可重试错误、次数用尽或 ctx 取消。
// 返回最后一次错误。
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx == nil {
		return ErrNilContext
	}
	if fn == nil {
		return ErrNilFunc
	}
	return retry.New(r.options(ctx)...).Do(func() error {
		return fn(ctx)
	})
}

// DoWithResult 带返回值的 Do
func DoWithResult[T any](ctx context.Context, r *Retryer, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if ctx == nil {
		return zero, ErrNilContext
	}
	if fn == nil {
		return zero, ErrNilFunc
	}
	return retry.NewWithData[T](r.options(ctx)...).Do(func() (T, error) {
		return fn(ctx)
	})
}

func (r *Retryer) options(ctx context.Context) []retry.Option {
	backoff := r.backoff
	retryIf := r.retryIf
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			if !IsRetryable(err) {
				return false
			}
			return retryIf == nil || retryIf(err)
		}),
		// retry-go v5 的 DelayType 中 n 从 1 开始
		retry.DelayType(func(n uint, _ error, _ retry.DelayContext) time.Duration {
			return backoff.NextDelay(int(min(n, math.MaxInt32)))
		}),
	}
	if r.onRetry != nil {
		onRetry := r.onRetry
		// OnRetry 的 n 从 0 开始
		opts = append(opts, retry.OnRetry(func(n uint, err error) {
			onRetry(int(min(n, math.MaxInt32))+1, err)
		}))
	}
	return opts
}
