package xmongo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/omeyang/mealkit/internal/storageopt"
	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/business/xstats"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
)

const component = "xmongo"

var (
	_ xmeal.Store  = (*Store)(nil)
	_ xstats.Store = (*Store)(nil)
)

// clientOperations 客户端级操作，*mongo.Client 实现此接口，测试中可替换。
type clientOperations interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
	Disconnect(ctx context.Context) error
	NumberSessionsInProgress() int
}

// Store MongoDB 存储。
type Store struct {
	client    *mongo.Client
	clientOps clientOperations
	menu      *mongo.Collection
	packs     *mongo.Collection
	orders    *mongo.Collection
	opts      *Options
	logger    xlog.Logger

	detector *storageopt.SlowQueryDetector[SlowQueryInfo]
	health   storageopt.HealthCounter
	ops      storageopt.OpCounter

	closed atomic.Bool
}

// New 基于已连接的客户端创建存储。
func New(client *mongo.Client, database string, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if strings.TrimSpace(database) == "" {
		return nil, ErrEmptyDatabase
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	db := client.Database(database)
	return &Store{
		client:    client,
		clientOps: client,
		menu:      db.Collection(CollectionMenuItems),
		packs:     db.Collection(CollectionMealPacks),
		orders:    db.Collection(CollectionOrders),
		opts:      o,
		logger:    o.Logger.With(xlog.Component(component)),
		detector:  newDetector(o),
	}, nil
}

// Connect 按 URI 建立连接、Ping 校验后创建存储。Ping 失败时断开连接。
func Connect(ctx context.Context, uri, database string, opts ...Option) (*Store, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("xmongo connect: %w", err)
	}
	s, err := New(client, database, opts...)
	if err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	if err := s.Health(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	return s, nil
}

func newDetector(o *Options) *storageopt.SlowQueryDetector[SlowQueryInfo] {
	var hook storageopt.SlowQueryHook[SlowQueryInfo]
	if o.SlowQueryHook != nil {
		hook = storageopt.SlowQueryHook[SlowQueryInfo](o.SlowQueryHook)
	}
	return storageopt.NewSlowQueryDetector(o.SlowQueryThreshold, hook)
}

// Client 返回底层客户端。不检查关闭状态。
func (s *Store) Client() *mongo.Client {
	return s.client
}

// Health 健康检查。
func (s *Store) Health(ctx context.Context) (err error) {
	if ctx == nil {
		return ErrNilContext
	}
	if s.closed.Load() {
		return ErrClosed
	}

	ctx, span := xmetrics.Start(ctx, s.opts.Observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "health",
		Kind:      xmetrics.KindClient,
		Attrs:     []xmetrics.Attr{xmetrics.String("db.system", "mongodb")},
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	err = s.health.Check(ctx, s.opts.HealthTimeout, func(ctx context.Context) error {
		return s.clientOps.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		return fmt.Errorf("xmongo health: %w", err)
	}
	return nil
}

// Stats 返回统计快照，关闭后仍可调用。
func (s *Store) Stats() Stats {
	st := Stats{
		PingCount:   s.health.PingCount(),
		PingErrors:  s.health.PingErrors(),
		Operations:  s.ops.Ops(),
		OpErrors:    s.ops.Errors(),
		SlowQueries: s.detector.Count(),
	}
	if s.clientOps != nil {
		st.ActiveSessions = s.clientOps.NumberSessionsInProgress()
	}
	if s.opts.Breaker != nil {
		st.BreakerState = s.opts.Breaker.State().String()
	}
	return st
}

// Close 断开连接。重复调用返回 ErrClosed。
//
// 设计决策: Disconnect 失败不回滚 closed 状态，不支持重试。
func (s *Store) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if s.clientOps == nil {
		return nil
	}
	if err := s.clientOps.Disconnect(ctx); err != nil {
		return fmt.Errorf("xmongo close: %w", err)
	}
	return nil
}

// opKind 决定兜底超时
type opKind int

const (
	opRead opKind = iota
	opWrite
)

// run 执行一次存储操作：关闭检查、兜底超时、span、计数与慢查询检测。
func (s *Store) run(ctx context.Context, kind opKind, coll, op string, filter any,
	fn func(ctx context.Context) error) (err error) {
	if ctx == nil {
		return ErrNilContext
	}
	if s.closed.Load() {
		return ErrClosed
	}

	timeout := s.opts.QueryTimeout
	if kind == opWrite {
		timeout = s.opts.WriteTimeout
	}
	ctx, cancel := applyTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ctx, span := xmetrics.Start(ctx, s.opts.Observer, xmetrics.SpanOptions{
		Component: component,
		Operation: op,
		Kind:      xmetrics.KindClient,
		Attrs: []xmetrics.Attr{
			xmetrics.String("db.system", "mongodb"),
			xmetrics.String("db.collection", coll),
		},
	})
	defer func() {
		d := time.Since(start)
		s.ops.Observe(err)

		var attrs []xmetrics.Attr
		info := SlowQueryInfo{Collection: coll, Operation: op, Filter: filter, Duration: d}
		if s.detector.MaybeSlowQuery(ctx, info, d) {
			s.logger.Warn(ctx, "slow mongo operation",
				xlog.Operation(op), xlog.Duration(d), slog.String("collection", coll))
			attrs = append(attrs,
				xmetrics.Bool("slow", true),
				xmetrics.Int64("slow_threshold_ms", s.opts.SlowQueryThreshold.Milliseconds()),
			)
		}
		span.End(xmetrics.Result{Err: err, Attrs: attrs})
	}()

	if s.opts.Breaker != nil {
		return s.opts.Breaker.Do(ctx, func() error { return fn(ctx) })
	}
	return fn(ctx)
}

// applyTimeout 调用方未设置 deadline 且 timeout > 0 时添加兜底超时。
func applyTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		if _, ok := ctx.Deadline(); !ok {
			return context.WithTimeout(ctx, timeout)
		}
	}
	return ctx, func() {}
}
