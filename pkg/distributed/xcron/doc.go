// Package xcron 基于 robfig/cron/v3 的进程内定时任务调度。
//
// 每个任务都有名字，执行时带可选超时、panic 恢复、日志、xmetrics span 与执行统计。
// 同一任务上一次尚未结束时跳过本次触发（SkipIfStillRunning）。
//
//	s := xcron.New(xcron.WithLogger(logger))
//	_, err := s.AddFunc("@every 1m", "cache-cleanup", func(ctx context.Context) error {
//	    cache.Cleanup()
//	    return nil
//	}, xcron.WithTimeout(10*time.Second))
//	group.Go(s.Run)
//
// 默认解析器支持 5 段表达式与 @every、@hourly 等描述符；WithSeconds 启用 6 段。
package xcron
