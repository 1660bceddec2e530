package xrun

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// Group 并发运行多个服务，任一返回错误即取消其余。
// Go、GoWithName、Cancel 可并发调用；Wait 只调用一次。
type Group struct {
	eg       *errgroup.Group
	ctx      context.Context
	causeCtx context.Context
	cancel   context.CancelCauseFunc
	opts     *groupOptions
	logger   xlog.Logger
}

// NewGroup 创建 Group，返回的 context 在任一服务出错或 Cancel 时取消。
func NewGroup(ctx context.Context, opts ...Option) (*Group, context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	causeCtx, cancel := context.WithCancelCause(ctx)
	eg, egCtx := errgroup.WithContext(causeCtx)
	return &Group{
		eg:       eg,
		ctx:      egCtx,
		causeCtx: causeCtx,
		cancel:   cancel,
		opts:     o,
		logger:   o.logger.With(slog.String("group", o.name)),
	}, egCtx
}

// Go 启动一个服务
func (g *Group) Go(fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		return fn(g.ctx)
	})
}

// GoWithName 同 Go，并记录服务的启动与退出
func (g *Group) GoWithName(name string, fn func(ctx context.Context) error) {
	g.eg.Go(func() error {
		if fn == nil {
			return ErrNilFunc
		}
		attr := slog.String("service", name)
		g.logger.Debug(g.ctx, "service starting", attr)
		err := fn(g.ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Warn(g.ctx, "service exited with error", attr, xlog.Err(err))
		} else {
			g.logger.Debug(g.ctx, "service stopped", attr)
		}
		return err
	})
}

// Wait 等待所有服务结束，返回第一个错误。
//
// context.Canceled 在 Group 被取消时被过滤为 nil，但显式的 Cancel(cause) 原因会原样返回，
// 即使所有服务都返回 nil。
func (g *Group) Wait() error {
	defer g.cancel(nil)

	err := g.eg.Wait()

	if errors.Is(err, context.Canceled) {
		if g.causeCtx.Err() != nil {
			return g.explicitCause()
		}
		// 服务内部自己的 context.Canceled
		return err
	}
	if err == nil && g.causeCtx.Err() != nil {
		return g.explicitCause()
	}
	return err
}

func (g *Group) explicitCause() error {
	if cause := context.Cause(g.causeCtx); cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return nil
}

// Cancel 取消所有服务。cause 不应包装 context.Canceled，否则会被 Wait 过滤。
func (g *Group) Cancel(cause error) {
	g.cancel(cause)
}

// Context 返回 Group 的 context
func (g *Group) Context() context.Context {
	return g.ctx
}

// Run 监听默认信号并运行 services，收到信号时返回 *SignalError。
func Run(ctx context.Context, services ...func(ctx context.Context) error) error {
	return RunWithOptions(ctx, nil, services...)
}

// RunWithOptions 同 Run，支持配置
func RunWithOptions(ctx context.Context, opts []Option, services ...func(ctx context.Context) error) error {
	g, _ := NewGroup(ctx, opts...)
	if !g.opts.noSignalHandler {
		g.Go(g.watchSignals)
	}
	for _, svc := range services {
		g.Go(svc)
	}
	return g.Wait()
}

func (g *Group) watchSignals(ctx context.Context) error {
	signals := g.opts.signals
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	testc := testSigChan(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-testc:
	case sig = <-sigCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	g.logger.Info(ctx, "received signal", slog.String("signal", sig.String()))
	g.cancel(&SignalError{Signal: sig})
	return nil
}

// testSigChanKey 测试通过 context 注入信号，避免向测试进程发送真实信号
type testSigChanKey struct{}

func testSigChan(ctx context.Context) <-chan os.Signal {
	c, _ := ctx.Value(testSigChanKey{}).(<-chan os.Signal)
	return c
}

func withTestSigChan(ctx context.Context, c <-chan os.Signal) context.Context {
	return context.WithValue(ctx, testSigChanKey{}, c)
}
