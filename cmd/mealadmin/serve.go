package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omeyang/mealkit/internal/adminapi"
	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/business/xstats"
	"github.com/omeyang/mealkit/pkg/config/xconf"
	"github.com/omeyang/mealkit/pkg/distributed/xcron"
	"github.com/omeyang/mealkit/pkg/distributed/xinvalidate"
	"github.com/omeyang/mealkit/pkg/lifecycle/xrun"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xlimit"
	"github.com/omeyang/mealkit/pkg/storage/xadmincache"
	"github.com/omeyang/mealkit/pkg/util/xid"
)

// cleanupJob 周期清扫过期缓存条目的任务名
const cleanupJob = "admin-cache-cleanup"

// serve 组装所有组件并运行到收到信号或 ctx 取消
func serve(ctx context.Context, configPath string, demo bool, stderr io.Writer) error {
	cfg, src, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.HTTP.AdminToken == "" {
		return &usageError{err: fmt.Errorf("http.admin_token (or %s) is required", envAdminToken)}
	}

	logger, closeLog, err := buildLogger(cfg.Log, stderr)
	if err != nil {
		return &usageError{err: err}
	}
	defer func() { _ = closeLog() }()
	logger.Info(ctx, "mealadmin starting", slog.String("version", Version), slog.Bool("demo", demo))

	obs, err := xmetrics.NewOTelObserver()
	if err != nil {
		return err
	}

	be, err := openBackend(ctx, cfg, demo, logger, obs)
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := be.close(cctx); err != nil {
			logger.Warn(cctx, "close store failed", xlog.Err(err))
		}
	}()

	cache, err := xadmincache.New(
		xadmincache.WithMaxSize(cfg.Cache.MaxSize),
		xadmincache.WithDefaultTTL(cfg.Cache.DefaultTTL),
		xadmincache.WithLogger(logger),
	)
	if err != nil {
		return &usageError{err: err}
	}
	stats, err := xstats.NewService(cache, be.store,
		xstats.WithTTL(cfg.Stats.TTL),
		xstats.WithLocation(cfg.location()),
		xstats.WithLogger(logger),
		xstats.WithObserver(obs),
	)
	if err != nil {
		return err
	}

	var services []func(ctx context.Context) error
	var invalidator xmeal.Invalidator = stats
	apiOpts := []adminapi.Option{
		adminapi.WithLogger(logger),
		adminapi.WithObserver(obs),
		adminapi.WithHealthCheck(be.health, 0),
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		bus, err := xinvalidate.New(rdb,
			xinvalidate.WithChannel(cfg.Redis.Channel),
			xinvalidate.WithLogger(logger),
			xinvalidate.WithObserver(obs),
		)
		if err != nil {
			return err
		}
		invalidator = xinvalidate.Broadcast(stats, bus)
		services = append(services, func(ctx context.Context) error { return bus.Run(ctx, stats) })
		logger.Info(ctx, "stats invalidation bus enabled",
			slog.String("channel", bus.Channel()), slog.String("origin", bus.Origin()))

		if n := cfg.Redis.RateLimitPerMinute; n > 0 {
			limiter, err := xlimit.New(rdb, xlimit.PerMinute(n), xlimit.WithLogger(logger))
			if err != nil {
				return err
			}
			apiOpts = append(apiOpts, adminapi.WithRateLimit(limiter))
		}
	}

	ids, err := xid.NewGenerator()
	if err != nil {
		return err
	}
	meals, err := xmeal.NewService(be.store, ids,
		xmeal.WithInvalidator(invalidator),
		xmeal.WithLogger(logger),
		xmeal.WithObserver(obs),
	)
	if err != nil {
		return err
	}

	scheduler := xcron.New(
		xcron.WithLogger(logger),
		xcron.WithObserver(obs),
		xcron.WithLocation(cfg.location()),
	)
	if _, err := scheduler.AddFunc(cfg.Cache.CleanupSchedule, cleanupJob, func(ctx context.Context) error {
		if n := cache.Cleanup(); n > 0 {
			logger.Debug(ctx, "swept expired cache entries", xlog.Count(int64(n)))
		}
		return nil
	}, xcron.WithTimeout(10*time.Second)); err != nil {
		return &usageError{err: fmt.Errorf("cache.cleanup_schedule: %w", err)}
	}

	api, err := adminapi.New(adminapi.Deps{Stats: stats, Meals: meals, Cache: cache}, cfg.HTTP.AdminToken, apiOpts...)
	if err != nil {
		return err
	}
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	services = append(services,
		xrun.HTTPServer(server, cfg.HTTP.ShutdownTimeout),
		scheduler.Run,
	)
	if src != nil {
		w, err := xconf.NewWatcher(src, levelReloader(logger), xconf.WithWatchLogger(logger))
		if err != nil {
			return err
		}
		services = append(services, w.Run)
	}

	logger.Info(ctx, "admin api listening", slog.String("addr", cfg.HTTP.Addr))
	err = xrun.RunWithOptions(ctx, []xrun.Option{xrun.WithLogger(logger), xrun.WithName("mealadmin")}, services...)
	if errors.Is(err, xrun.ErrSignal) {
		logger.Info(ctx, "mealadmin stopped", slog.String("reason", err.Error()))
		return nil
	}
	return err
}

// levelReloader 配置文件变更时只热更新日志级别，其余配置需重启生效
func levelReloader(logger xlog.LoggerWithLevel) xconf.WatchCallback {
	return func(c xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			return
		}
		next := defaultAppConfig()
		if err := c.Unmarshal("", &next); err != nil {
			logger.Warn(ctx, "reloaded config is invalid", xlog.Err(err))
			return
		}
		level, err := xlog.ParseLevel(next.Log.Level)
		if err != nil {
			logger.Warn(ctx, "reloaded log level is invalid", xlog.Err(err))
			return
		}
		if level != logger.GetLevel() {
			logger.SetLevel(level)
			logger.Info(ctx, "log level changed", slog.String("level", level.String()))
		}
	}
}
