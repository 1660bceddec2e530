package xmeal

import (
	"github.com/benbjohnson/clock"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xretry"
)

const (
	// MaxQuantityPerLine 单行最大份数
	MaxQuantityPerLine = 50

	// MaxLinesPerOrder 单个订单最多行数
	MaxLinesPerOrder = 20

	// commitAttempts 餐包余额冲突时的最大提交次数
	commitAttempts = 3
)

type options struct {
	invalidator Invalidator
	clock       clock.Clock
	logger      xlog.Logger
	observer    xmetrics.Observer
	retryer     *xretry.Retryer
}

// Option Service 配置项
type Option func(*options)

func defaultOptions() *options {
	return &options{
		clock:    clock.New(),
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
	}
}

// WithInvalidator 订单变化后调用 ClearCache
func WithInvalidator(inv Invalidator) Option {
	return func(o *options) {
		o.invalidator = inv
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

// WithCommitRetryer 自定义余额冲突时的重试。默认 3 次、无退避。
func WithCommitRetryer(r *xretry.Retryer) Option {
	return func(o *options) {
		if r != nil {
			o.retryer = r
		}
	}
}
