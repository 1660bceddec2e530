package main

import (
	"context"
	"io"
	"time"

	"github.com/omeyang/mealkit/pkg/business/xstats"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/storage/xadmincache"
	"github.com/omeyang/mealkit/pkg/util/xjson"
)

// statsReport stats 子命令的输出
type statsReport struct {
	Dashboard    xstats.DashboardStats `json:"dashboard"`
	Menu         xstats.MenuStatus     `json:"menu"`
	RecentOrders []xstats.OrderSummary `json:"recent_orders"`
	GeneratedAt  time.Time             `json:"generated_at"`
}

// printStats 一次性计算并输出仪表盘数据，不启动 HTTP 服务
func printStats(ctx context.Context, configPath string, demo bool, limit int, stdout, stderr io.Writer) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, closeLog, err := buildLogger(cfg.Log, stderr)
	if err != nil {
		return &usageError{err: err}
	}
	defer func() { _ = closeLog() }()

	obs := xmetrics.NoopObserver{}
	be, err := openBackend(ctx, cfg, demo, logger, obs)
	if err != nil {
		return err
	}
	defer func() { _ = be.close(context.Background()) }()

	cache, err := xadmincache.New(xadmincache.WithMaxSize(cfg.Cache.MaxSize), xadmincache.WithLogger(logger))
	if err != nil {
		return err
	}
	stats, err := xstats.NewService(cache, be.store,
		xstats.WithLocation(cfg.location()),
		xstats.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	var report statsReport
	if report.Dashboard, err = stats.DashboardStats(ctx); err != nil {
		return err
	}
	if report.Menu, err = stats.MenuStatus(ctx); err != nil {
		return err
	}
	if report.RecentOrders, err = stats.RecentOrders(ctx, limit); err != nil {
		return err
	}
	if report.RecentOrders == nil {
		report.RecentOrders = []xstats.OrderSummary{}
	}
	report.GeneratedAt = report.Dashboard.GeneratedAt
	if err := xjson.Encode(stdout, report, true); err != nil {
		logger.Error(ctx, "write stats failed", xlog.Err(err))
		return err
	}
	return nil
}
