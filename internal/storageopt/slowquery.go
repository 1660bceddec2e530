package storageopt

import (
	"context"
	"time"
)

// SlowQueryHook 慢查询回调，在请求路径上同步执行。
//
// ⚠️ 钩子耗时直接计入请求延迟，只应做计数、写 channel、打日志这类微秒级操作。
type SlowQueryHook[T any] func(ctx context.Context, info T)

// SlowQueryDetector 慢查询检测器。零值可用，此时检测关闭。
type SlowQueryDetector[T any] struct {
	threshold time.Duration
	hook      SlowQueryHook[T]
	counter   SlowQueryCounter
}

// NewSlowQueryDetector 创建检测器。threshold <= 0 表示禁用。
func NewSlowQueryDetector[T any](threshold time.Duration, hook SlowQueryHook[T]) *SlowQueryDetector[T] {
	return &SlowQueryDetector[T]{threshold: threshold, hook: hook}
}

// MaybeSlowQuery duration >= threshold 时计数并调用钩子，返回是否判定为慢查询。
func (d *SlowQueryDetector[T]) MaybeSlowQuery(ctx context.Context, info T, duration time.Duration) bool {
	if d == nil || d.threshold <= 0 || duration < d.threshold {
		return false
	}
	d.counter.Inc()
	if d.hook != nil {
		d.hook(ctx, info)
	}
	return true
}

// Count 返回已检测到的慢查询数。
func (d *SlowQueryDetector[T]) Count() int64 {
	if d == nil {
		return 0
	}
	return d.counter.Count()
}
