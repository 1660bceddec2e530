package xmongo

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xbreaker"
)

type mockClientOps struct {
	pingErr       error
	pingCount     int
	disconnectErr error
	disconnected  bool
	sessions      int
}

func (m *mockClientOps) Ping(context.Context, *readpref.ReadPref) error {
	m.pingCount++
	return m.pingErr
}

func (m *mockClientOps) Disconnect(context.Context) error {
	m.disconnected = true
	return m.disconnectErr
}

func (m *mockClientOps) NumberSessionsInProgress() int { return m.sessions }

func newTestStore(ops clientOperations, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Store{
		clientOps: ops,
		opts:      o,
		logger:    o.Logger,
		detector:  newDetector(o),
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, "meals")
	require.ErrorIs(t, err, ErrNilClient)

	// v2 的 Connect 不会立即建连
	client, err := mongo.Connect(options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	_, err = New(client, " ")
	require.ErrorIs(t, err, ErrEmptyDatabase)

	s, err := New(client, "meals", nil)
	require.NoError(t, err)
	assert.Same(t, client, s.Client())
	assert.Equal(t, CollectionOrders, s.orders.Name())
	assert.Equal(t, CollectionMealPacks, s.packs.Name())
	assert.Equal(t, CollectionMenuItems, s.menu.Name())
	assert.Equal(t, "meals", s.orders.Database().Name())
}

func TestHealth(t *testing.T) {
	ops := &mockClientOps{}
	s := newTestStore(ops)

	require.NoError(t, s.Health(context.Background()))
	ops.pingErr = errors.New("no reachable servers")
	err := s.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xmongo health")

	st := s.Stats()
	assert.Equal(t, int64(2), st.PingCount)
	assert.Equal(t, int64(1), st.PingErrors)

	//nolint:staticcheck // nil ctx
	assert.ErrorIs(t, s.Health(nil), ErrNilContext)
}

func TestClose(t *testing.T) {
	ops := &mockClientOps{sessions: 3}
	s := newTestStore(ops)

	require.NoError(t, s.Close(context.Background()))
	assert.True(t, ops.disconnected)
	assert.ErrorIs(t, s.Close(context.Background()), ErrClosed)
	assert.ErrorIs(t, s.Health(context.Background()), ErrClosed)
	assert.Equal(t, 3, s.Stats().ActiveSessions)
}

func TestClose_DisconnectError(t *testing.T) {
	s := newTestStore(&mockClientOps{disconnectErr: errors.New("network down")})
	//nolint:staticcheck // nil ctx 归一化为 Background
	err := s.Close(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xmongo close")
}

func TestRun_CountsAndClosed(t *testing.T) {
	s := newTestStore(&mockClientOps{})
	ctx := context.Background()

	require.NoError(t, s.run(ctx, opRead, "orders", "order", nil, func(context.Context) error { return nil }))
	boom := errors.New("boom")
	assert.ErrorIs(t, s.run(ctx, opRead, "orders", "order", nil, func(context.Context) error { return boom }), boom)

	st := s.Stats()
	assert.Equal(t, int64(2), st.Operations)
	assert.Equal(t, int64(1), st.OpErrors)

	require.NoError(t, s.Close(ctx))
	called := false
	err := s.run(ctx, opRead, "orders", "order", nil, func(context.Context) error { called = true; return nil })
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, called)
}

func TestRun_FallbackTimeout(t *testing.T) {
	s := newTestStore(&mockClientOps{}, WithQueryTimeout(time.Minute), WithWriteTimeout(0))

	var readDeadline, writeDeadline bool
	require.NoError(t, s.run(context.Background(), opRead, "c", "r", nil, func(ctx context.Context) error {
		_, readDeadline = ctx.Deadline()
		return nil
	}))
	require.NoError(t, s.run(context.Background(), opWrite, "c", "w", nil, func(ctx context.Context) error {
		_, writeDeadline = ctx.Deadline()
		return nil
	}))
	assert.True(t, readDeadline)
	assert.False(t, writeDeadline)

	// 调用方自带 deadline 时保持不变
	want := time.Now().Add(time.Second)
	ctx, cancel := context.WithDeadline(context.Background(), want)
	defer cancel()
	require.NoError(t, s.run(ctx, opRead, "c", "r", nil, func(ctx context.Context) error {
		got, ok := ctx.Deadline()
		assert.True(t, ok)
		assert.Equal(t, want, got)
		return nil
	}))
}

func TestRun_SlowQuery(t *testing.T) {
	var captured []SlowQueryInfo
	var buf bytes.Buffer
	logger, _, err := xlog.New().SetOutput(&buf).SetFormat("json").Build()
	require.NoError(t, err)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	obs, err := xmetrics.NewOTelObserver(xmetrics.WithTracerProvider(tp))
	require.NoError(t, err)

	s := newTestStore(&mockClientOps{},
		WithSlowQueryThreshold(time.Millisecond),
		WithSlowQueryHook(func(_ context.Context, info SlowQueryInfo) { captured = append(captured, info) }),
		WithLogger(logger),
		WithObserver(obs),
	)

	filter := map[string]any{"customer_id": "alice"}
	require.NoError(t, s.run(context.Background(), opRead, CollectionMealPacks, "customer_packs", filter,
		func(context.Context) error {
			time.Sleep(5 * time.Millisecond)
			return nil
		}))

	require.Len(t, captured, 1)
	assert.Equal(t, CollectionMealPacks, captured[0].Collection)
	assert.Equal(t, "customer_packs", captured[0].Operation)
	assert.Equal(t, filter, captured[0].Filter)
	assert.GreaterOrEqual(t, captured[0].Duration, 5*time.Millisecond)
	assert.Equal(t, int64(1), s.Stats().SlowQueries)
	assert.Contains(t, buf.String(), "slow mongo operation")

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "xmongo.customer_packs", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.Bool("slow", true))
	assert.Contains(t, spans[0].Attributes, attribute.String("db.collection", CollectionMealPacks))
}

func TestConnect_NilContext(t *testing.T) {
	//nolint:staticcheck // nil ctx
	_, err := Connect(nil, "mongodb://127.0.0.1:1", "meals")
	assert.ErrorIs(t, err, ErrNilContext)
}

func TestRun_Breaker(t *testing.T) {
	s := newTestStore(&mockClientOps{}, WithBreaker(NewBreaker(xlog.Discard())))
	ctx := context.Background()

	// 业务结果不计为失败
	for range 10 {
		err := s.run(ctx, opRead, "orders", "order", nil, func(context.Context) error { return xmeal.ErrOrderNotFound })
		assert.ErrorIs(t, err, xmeal.ErrOrderNotFound)
	}
	assert.Equal(t, "closed", s.Stats().BreakerState)

	down := errors.New("server selection timeout")
	for range 5 {
		assert.ErrorIs(t, s.run(ctx, opRead, "orders", "order", nil, func(context.Context) error { return down }), down)
	}
	called := false
	err := s.run(ctx, opWrite, "orders", "commit_order", nil, func(context.Context) error { called = true; return nil })
	assert.False(t, called)
	assert.ErrorIs(t, err, xbreaker.ErrOpen)
	assert.Equal(t, "open", s.Stats().BreakerState)

	// 熔断错误在业务层归类为 DatabaseError
	assert.ErrorIs(t, xmeal.WrapStoreError("commit_order", err), xmeal.ErrDatabase)
}

func TestNotInfraError(t *testing.T) {
	assert.True(t, notInfraError(context.Canceled))
	assert.True(t, notInfraError(mongo.ErrNoDocuments))
	assert.True(t, notInfraError(xmeal.ErrBalanceConflict))
	assert.False(t, notInfraError(context.DeadlineExceeded))
	assert.False(t, notInfraError(errors.New("connection reset")))
}
