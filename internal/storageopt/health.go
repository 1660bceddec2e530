package storageopt

import (
	"context"
	"sync/atomic"
	"time"
)

// DefaultHealthTimeout 默认健康检查超时时间。
const DefaultHealthTimeout = 5 * time.Second

// HealthCounter 健康检查计数器，零值可用。
type HealthCounter struct {
	pingCount  atomic.Int64
	pingErrors atomic.Int64
}

// Check 在 timeout 内执行一次 ping 并计数。timeout <= 0 时不额外设置超时。
//
//	err := s.health.Check(ctx, s.opts.HealthTimeout, func(ctx context.Context) error {
//		return client.Ping(ctx, readpref.Primary())
//	})
func (h *HealthCounter) Check(ctx context.Context, timeout time.Duration, ping func(context.Context) error) error {
	h.pingCount.Add(1)
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := ping(ctx); err != nil {
		h.pingErrors.Add(1)
		return err
	}
	return nil
}

// PingCount 返回 ping 计数。
func (h *HealthCounter) PingCount() int64 { return h.pingCount.Load() }

// PingErrors 返回 ping 错误计数。
func (h *HealthCounter) PingErrors() int64 { return h.pingErrors.Load() }
