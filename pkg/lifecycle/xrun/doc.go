// Package xrun 基于 errgroup + context 管理进程内多个服务的运行与协调关闭。
//
// 任一服务返回错误、收到终止信号或调用 Cancel 时，共享的 context 被取消，
// 所有服务应监听 ctx.Done() 并尽快返回。
//
//	err := xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithLogger(logger), xrun.WithName("mealadmin")},
//	    xrun.HTTPServer(server, 10*time.Second),
//	    scheduler.Run,
//	    func(ctx context.Context) error { return bus.Run(ctx, stats) },
//	)
//	if errors.Is(err, xrun.ErrSignal) {
//	    // 正常的信号退出
//	}
//
// Wait 会过滤普通的 context.Canceled，但保留 Cancel(cause) 设置的退出原因（例如 *SignalError）。
package xrun
