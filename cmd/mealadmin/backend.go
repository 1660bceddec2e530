package main

import (
	"context"
	"fmt"
	"time"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/business/xstats"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/storage/xmemstore"
	"github.com/omeyang/mealkit/pkg/storage/xmongo"
)

// backend 同时满足下单与统计两侧的存储接口
type backend interface {
	xmeal.Store
	xstats.Store
}

var (
	_ backend = (*xmongo.Store)(nil)
	_ backend = (*xmemstore.Store)(nil)
)

// openedBackend health 与 close 在内存模式下为空操作
type openedBackend struct {
	store  backend
	health func(ctx context.Context) error
	close  func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg AppConfig, demo bool,
	logger xlog.Logger, obs xmetrics.Observer) (*openedBackend, error) {
	if demo {
		s := xmemstore.New()
		xmemstore.Seed(s, time.Now())
		logger.Info(ctx, "using in-memory demo store")
		return &openedBackend{
			store:  s,
			health: func(context.Context) error { return nil },
			close:  func(context.Context) error { return nil },
		}, nil
	}

	if cfg.Mongo.URI == "" {
		return nil, &usageError{err: fmt.Errorf("mongo.uri is required unless --demo is set")}
	}
	s, err := xmongo.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database,
		xmongo.WithSlowQueryThreshold(cfg.Mongo.SlowQueryThreshold),
		xmongo.WithLogger(logger),
		xmongo.WithObserver(obs),
		xmongo.WithBreaker(xmongo.NewBreaker(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = s.Close(ctx)
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}
	logger.Info(ctx, "connected to mongo")
	return &openedBackend{store: s, health: s.Health, close: s.Close}, nil
}
