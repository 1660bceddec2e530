package xretry

import (
	"math"
	"math/rand/v2"
	"time"
)

// Backoff 根据已失败次数（从 1 开始）计算下一次等待时间
type Backoff interface {
	NextDelay(attempt int) time.Duration
}

// FixedBackoff 固定间隔
type FixedBackoff struct {
	delay time.Duration
}

func NewFixedBackoff(delay time.Duration) *FixedBackoff {
	return &FixedBackoff{delay: max(delay, 0)}
}

func (b *FixedBackoff) NextDelay(int) time.Duration {
	return b.delay
}

// ExponentialBackoff 指数退避，jitter 为 [0,1] 内的随机扰动比例。
type ExponentialBackoff struct {
	initial    time.Duration
	maxDelay   time.Duration
	multiplier float64
	jitter     float64
}

// NewExponentialBackoff 默认 100ms 起步，每次翻倍，上限 5s，10% 抖动。
func NewExponentialBackoff() *ExponentialBackoff {
	return &ExponentialBackoff{
		initial:    100 * time.Millisecond,
		maxDelay:   5 * time.Second,
		multiplier: 2,
		jitter:     0.1,
	}
}

// WithBounds 设置起始与上限，非正值保持原值。
func (b *ExponentialBackoff) WithBounds(initial, maxDelay time.Duration) *ExponentialBackoff {
	if initial > 0 {
		b.initial = initial
	}
	if maxDelay > 0 {
		b.maxDelay = maxDelay
	}
	return b
}

// WithJitter 设置抖动比例，超出 [0,1] 会被截断。
func (b *ExponentialBackoff) WithJitter(j float64) *ExponentialBackoff {
	b.jitter = min(max(j, 0), 1)
	return b
}

func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(b.initial) * math.Pow(b.multiplier, float64(attempt-1))
	if d > float64(b.maxDelay) {
		d = float64(b.maxDelay)
	}
	if b.jitter > 0 {
		d += d * b.jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(max(d, 0))
}
