package xadmincache

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

const (
	// DefaultMaxSize 默认最大条目数
	DefaultMaxSize = 1000

	// DefaultTTL 默认条目有效期
	DefaultTTL = 5 * time.Minute

	// maxSizeLimit 容量上限，与底层链表的实际承载能力保持一致
	maxSizeLimit = 1 << 24
)

type options struct {
	maxSize    int
	defaultTTL time.Duration
	clock      clock.Clock
	logger     xlog.Logger
}

// Option 缓存配置项
type Option func(*options)

func defaultOptions() *options {
	return &options{
		maxSize:    DefaultMaxSize,
		defaultTTL: DefaultTTL,
		clock:      clock.New(),
		logger:     xlog.Discard(),
	}
}

// WithMaxSize 设置最大条目数，必须大于 0。
func WithMaxSize(n int) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

// WithDefaultTTL 设置未显式指定 ttl 时使用的有效期，必须大于 0。
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = d
	}
}

// WithClock 注入时钟，测试中使用 clock.NewMock() 推进虚拟时间。
// nil 保持系统时钟。
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger 注入日志。nil 保持 Discard。
func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
