package xstats

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/singleflight"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xretry"
	"github.com/omeyang/mealkit/pkg/storage/xadmincache"
)

const component = "xstats"

var (
	dashboardKey = xadmincache.NewKey[DashboardStats]("dashboard_stats")
	menuKey      = xadmincache.NewKey[MenuStatus]("menu_status")
)

func recentOrdersKey(limit int) xadmincache.Key[[]OrderSummary] {
	return xadmincache.NewKey[[]OrderSummary](fmt.Sprintf("recent_orders_%d", limit))
}

var _ xmeal.Invalidator = (*Service)(nil)

// Service 带缓存的统计服务，并发安全。
type Service struct {
	cache *xadmincache.Cache
	store Store
	group singleflight.Group

	// gen 每次 ClearCache 加一。回源开始后 gen 变化则结果不写回缓存。
	gen atomic.Uint64

	ttl          time.Duration
	loadTimeout  time.Duration
	activeWindow time.Duration
	location     *time.Location
	retryer      *xretry.Retryer
	clock        clock.Clock
	logger       xlog.Logger
	observer     xmetrics.Observer

	mu           sync.Mutex
	recentLimits map[int]struct{}
}

// NewService 创建统计服务。cache 与 store 必填。
func NewService(cache *xadmincache.Cache, store Store, opts ...Option) (*Service, error) {
	if cache == nil {
		return nil, ErrNilCache
	}
	if store == nil {
		return nil, ErrNilStore
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &Service{
		cache:        cache,
		store:        store,
		ttl:          o.ttl,
		loadTimeout:  o.loadTimeout,
		activeWindow: o.activeWindow,
		location:     o.location,
		retryer:      o.retryer,
		clock:        o.clock,
		logger:       o.logger.With(xlog.Component(component)),
		observer:     o.observer,
		recentLimits: make(map[int]struct{}),
	}, nil
}

// DashboardStats 仪表盘汇总
func (s *Service) DashboardStats(ctx context.Context) (DashboardStats, error) {
	return load(ctx, s, dashboardKey, "dashboard", func(ctx context.Context) (DashboardStats, error) {
		now := s.clock.Now().In(s.location)
		y, m, d := now.Date()
		counts, err := s.store.DashboardCounts(ctx, DashboardQuery{
			Now:         now,
			DayStart:    time.Date(y, m, d, 0, 0, 0, 0, s.location),
			ActiveSince: now.Add(-s.activeWindow),
		})
		if err != nil {
			return DashboardStats{}, err
		}
		return DashboardStats{
			TotalOrders:        counts.TotalOrders,
			OrdersToday:        counts.OrdersToday,
			PendingOrders:      counts.PendingOrders,
			RevenueCents:       counts.RevenueCents,
			ActiveCustomers:    counts.ActiveCustomers,
			ActivePacks:        counts.ActivePacks,
			RemainingPackMeals: counts.RemainingPackMeals,
			GeneratedAt:        now,
		}, nil
	})
}

// NormalizeLimit limit <= 0 取 DefaultRecentLimit，超过 MaxRecentLimit 截断。
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return min(limit, MaxRecentLimit)
}

// RecentOrders 最近订单，limit 经 NormalizeLimit 处理。
func (s *Service) RecentOrders(ctx context.Context, limit int) ([]OrderSummary, error) {
	limit = NormalizeLimit(limit)
	key := recentOrdersKey(limit)

	// 先登记再读取，保证 ClearCache 总能覆盖到即将写入的键
	s.mu.Lock()
	s.recentLimits[limit] = struct{}{}
	s.mu.Unlock()

	return load(ctx, s, key, "recent_orders", func(ctx context.Context) ([]OrderSummary, error) {
		orders, err := s.store.RecentOrders(ctx, limit)
		if err != nil {
			return nil, err
		}
		out := make([]OrderSummary, 0, len(orders))
		for _, o := range orders {
			out = append(out, summarize(o))
		}
		return out, nil
	})
}

// MenuStatus 菜单概况
func (s *Service) MenuStatus(ctx context.Context) (MenuStatus, error) {
	return load(ctx, s, menuKey, "menu_status", func(ctx context.Context) (MenuStatus, error) {
		items, err := s.store.AllMenuItems(ctx)
		if err != nil {
			return MenuStatus{}, err
		}
		return menuStatus(items, s.clock.Now()), nil
	})
}

// ClearCache 删除本服务写入的全部缓存键
func (s *Service) ClearCache(ctx context.Context) {
	s.mu.Lock()
	keys := make([]string, 0, 2+len(s.recentLimits))
	keys = append(keys, dashboardKey.Name(), menuKey.Name())
	for limit := range s.recentLimits {
		keys = append(keys, recentOrdersKey(limit).Name())
	}
	s.mu.Unlock()

	slices.Sort(keys)
	s.gen.Add(1)
	removed := 0
	for _, k := range keys {
		// 进行中的回源读到的是失效前的数据，新的调用方不能再合并到它
		s.group.Forget(k)
		if s.cache.Delete(k) {
			removed++
		}
	}
	s.logger.Info(ctx, "stats cache cleared", xlog.Count(int64(removed)))
}

// load 缓存读取与回源。
//
// singleflight 以缓存键去重；回源在脱离调用方取消链的 ctx 上执行并带独立超时，
// 首个调用方取消不影响其他等待者。每个调用方各自响应自己的 ctx。
// 回源期间发生 ClearCache 时结果只返回给本轮等待者，不写回缓存。
func load[V any](ctx context.Context, s *Service, key xadmincache.Key[V], op string,
	compute func(ctx context.Context) (V, error)) (v V, err error) {
	ctx, span := xmetrics.Start(ctx, s.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: op,
		Attrs:     []xmetrics.Attr{xmetrics.String(xmetrics.AttrCacheKey, key.Name())},
	})
	hit := false
	defer func() {
		span.End(xmetrics.Result{Err: err, Attrs: []xmetrics.Attr{xmetrics.Bool(xmetrics.AttrCacheHit, hit)}})
	}()

	if cached, ok := xadmincache.GetAs(s.cache, key); ok {
		hit = true
		return cached, nil
	}

	ch := s.group.DoChan(key.Name(), func() (any, error) {
		// 等待期间可能已有其他调用方写回。外层已记过一次未命中，这里不再计数。
		if cached, ok := xadmincache.PeekAs(s.cache, key); ok {
			return cached, nil
		}
		gen := s.gen.Load()
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.loadTimeout)
		defer cancel()

		attempts := 0
		fresh, err := xretry.DoWithResult(loadCtx, s.retryer, func(ctx context.Context) (V, error) {
			attempts++
			return compute(ctx)
		})
		if err != nil {
			s.logger.Error(loadCtx, "stats query failed",
				xlog.Operation(op), xlog.Key(key.Name()), xlog.Count(int64(attempts)), xlog.Err(err))
			return nil, xmeal.WrapStoreError(op, err)
		}
		if s.gen.Load() != gen {
			s.logger.Debug(loadCtx, "stats invalidated during load, result not cached",
				xlog.Operation(op), xlog.Key(key.Name()))
			return fresh, nil
		}
		xadmincache.SetAsWithTTL(s.cache, key, fresh, s.ttl)
		return fresh, nil
	})

	select {
	case <-ctx.Done():
		return v, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return v, res.Err
		}
		out, ok := res.Val.(V)
		if !ok {
			return v, errors.New("xstats: unexpected result type from singleflight")
		}
		return out, nil
	}
}
