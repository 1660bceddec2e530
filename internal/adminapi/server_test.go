package adminapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/business/xstats"
	"github.com/omeyang/mealkit/pkg/storage/xadmincache"
	"github.com/omeyang/mealkit/pkg/storage/xmemstore"
	"github.com/omeyang/mealkit/pkg/util/xjson"
)

const testToken = "s3cret"

var now0 = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type seqIDs struct{ n atomic.Int64 }

func (g *seqIDs) NewString() (string, error) {
	return fmt.Sprintf("ord-%03d", g.n.Add(1)), nil
}

type fixture struct {
	cache   *xadmincache.Cache
	handler http.Handler
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	mock := clock.NewMock()
	mock.Set(now0)
	store := xmemstore.New()
	xmemstore.Seed(store, now0)

	cache, err := xadmincache.New(xadmincache.WithClock(mock))
	require.NoError(t, err)
	stats, err := xstats.NewService(cache, store, xstats.WithClock(mock), xstats.WithLocation(time.UTC))
	require.NoError(t, err)
	meals, err := xmeal.NewService(store, &seqIDs{}, xmeal.WithClock(mock), xmeal.WithInvalidator(stats))
	require.NoError(t, err)

	srv, err := New(Deps{Stats: stats, Meals: meals, Cache: cache}, testToken, opts...)
	require.NoError(t, err)
	return &fixture{cache: cache, handler: srv.Handler()}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, xjson.DecodeStrict(rec.Body, &v), rec.Body.String())
	return v
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Deps{}, testToken)
	assert.ErrorIs(t, err, ErrMissingDeps)

	cache, err := xadmincache.New()
	require.NoError(t, err)
	_, err = New(Deps{Stats: stubStats{}, Meals: &xmeal.Service{}, Cache: cache}, "  ")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestAuth(t *testing.T) {
	f := newFixture(t)
	for _, header := range []string{"", "Bearer", "Bearer wrong", "Basic " + testToken, "bearer" + testToken} {
		req := httptest.NewRequest(http.MethodGet, "/admin/stats/dashboard", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/stats/dashboard", nil)
	req.Header.Set("Authorization", "bearer "+testToken)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	const detail = "server selection error: mongo-primary.internal:27017 auth failed for user admin"
	down := newFixture(t, WithHealthCheck(func(context.Context) error { return errors.New(detail) }, time.Second))
	rec = httptest.NewRecorder()
	down.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "mongo-primary")
}

func TestCacheDelete_EscapedKey(t *testing.T) {
	f := newFixture(t)
	f.cache.Set("a/b", 1)
	f.cache.Set("100%", 2)

	assert.Equal(t, http.StatusNoContent, do(t, f.handler, http.MethodDelete, "/admin/cache/a%2Fb", "").Code)
	assert.False(t, f.cache.Has("a/b"))

	assert.Equal(t, http.StatusNoContent, do(t, f.handler, http.MethodDelete, "/admin/cache/100%25", "").Code)
	assert.False(t, f.cache.Has("100%"))
}

func TestStatsEndpoints(t *testing.T) {
	f := newFixture(t)

	rec := do(t, f.handler, http.MethodGet, "/admin/stats/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	dash := decode[xstats.DashboardStats](t, rec)
	assert.Equal(t, int64(28), dash.RemainingPackMeals)
	assert.Equal(t, int64(3), dash.ActivePacks)

	rec = do(t, f.handler, http.MethodGet, "/admin/stats/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	menu := decode[xstats.MenuStatus](t, rec)
	assert.Equal(t, 5, menu.Total)
	assert.Equal(t, 4, menu.Available)
	assert.Equal(t, 1, menu.SoldOut)

	rec = do(t, f.handler, http.MethodGet, "/admin/stats/recent-orders?limit=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, f.handler, http.MethodGet, "/admin/stats/recent-orders?limit=five", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, []string{"dashboard_stats", "menu_status", "recent_orders_5"}, f.cache.Keys())
}

func TestCacheEndpoints(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, do(t, f.handler, http.MethodGet, "/admin/stats/dashboard", "").Code)
	require.Equal(t, http.StatusOK, do(t, f.handler, http.MethodGet, "/admin/stats/menu", "").Code)

	rec := do(t, f.handler, http.MethodGet, "/admin/cache/keys", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, keysBody{Keys: []string{"dashboard_stats", "menu_status"}}, decode[keysBody](t, rec))

	rec = do(t, f.handler, http.MethodGet, "/admin/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"max_size":1000`)
	assert.Contains(t, rec.Body.String(), `"size":2`)
	assert.Contains(t, rec.Body.String(), `"hit_ratio":0`)

	assert.Equal(t, http.StatusNoContent, do(t, f.handler, http.MethodDelete, "/admin/cache/menu_status", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, f.handler, http.MethodDelete, "/admin/cache/menu_status", "").Code)

	rec = do(t, f.handler, http.MethodPost, "/admin/cache/cleanup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, countBody{Removed: 0}, decode[countBody](t, rec))

	assert.Equal(t, http.StatusNoContent, do(t, f.handler, http.MethodPost, "/admin/cache/clear", "").Code)
	assert.Zero(t, f.cache.Len())

	rec = do(t, f.handler, http.MethodGet, "/admin/cache/keys", "")
	assert.JSONEq(t, `{"keys":[]}`, rec.Body.String())
}

func TestOrderEndpoints(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, do(t, f.handler, http.MethodGet, "/admin/stats/dashboard", "").Code)

	rec := do(t, f.handler, http.MethodPost, "/admin/orders",
		`{"customer_id":"alice","items":[{"menu_item_id":"teriyaki-bowl","quantity":3}],"use_meal_packs":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[xmeal.Order](t, rec)
	assert.Equal(t, "ord-001", order.ID)
	assert.Equal(t, xmeal.StatusPending, order.Status)
	assert.Equal(t, []xmeal.Deduction{{PackID: "pack-alice-1", Meals: 2}, {PackID: "pack-alice-2", Meals: 1}}, order.Deductions)

	// 下单后统计缓存已失效
	assert.Empty(t, f.cache.Keys())

	rec = do(t, f.handler, http.MethodGet, "/admin/customers/alice/pack-balance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, balanceBody{CustomerID: "alice", RemainingMeals: 19}, decode[balanceBody](t, rec))

	rec = do(t, f.handler, http.MethodPatch, "/admin/orders/ord-001/status", `{"status":"cancelled"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, xmeal.StatusCancelled, decode[xmeal.Order](t, rec).Status)

	rec = do(t, f.handler, http.MethodPatch, "/admin/orders/ord-001/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, f.handler, http.MethodGet, "/admin/customers/alice/pack-balance", "")
	assert.Equal(t, balanceBody{CustomerID: "alice", RemainingMeals: 22}, decode[balanceBody](t, rec))
}

func TestOrderEndpoints_Errors(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed json", http.MethodPost, "/admin/orders", `{"customer_id":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/admin/orders", `{"customer":"alice"}`, http.StatusBadRequest},
		{"no items", http.MethodPost, "/admin/orders", `{"customer_id":"alice","items":[]}`, http.StatusBadRequest},
		{"unknown item", http.MethodPost, "/admin/orders",
			`{"customer_id":"alice","items":[{"menu_item_id":"pizza","quantity":1}]}`, http.StatusBadRequest},
		{"sold out", http.MethodPost, "/admin/orders",
			`{"customer_id":"alice","items":[{"menu_item_id":"veggie-curry","quantity":1}]}`, http.StatusBadRequest},
		{"insufficient balance", http.MethodPost, "/admin/orders",
			`{"customer_id":"bob","items":[{"menu_item_id":"miso-soup","quantity":7}],"use_meal_packs":true}`, http.StatusConflict},
		{"order not found", http.MethodPatch, "/admin/orders/nope/status", `{"status":"confirmed"}`, http.StatusNotFound},
		{"unknown status", http.MethodPatch, "/admin/orders/nope/status", `{"status":"lost"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, f.handler, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errorBody](t, rec).Error)
		})
	}
}

type stubStats struct{ err error }

func (s stubStats) DashboardStats(context.Context) (xstats.DashboardStats, error) {
	return xstats.DashboardStats{}, s.err
}

func (s stubStats) RecentOrders(context.Context, int) ([]xstats.OrderSummary, error) {
	return nil, s.err
}

func (s stubStats) MenuStatus(context.Context) (xstats.MenuStatus, error) {
	return xstats.MenuStatus{}, s.err
}

func TestErrorStatus_HidesInternals(t *testing.T) {
	cache, err := xadmincache.New()
	require.NoError(t, err)

	dbErr := &xmeal.DatabaseError{Op: "dashboard", Err: errors.New("connection refused 10.0.0.7")}
	srv, err := New(Deps{Stats: stubStats{err: dbErr}, Meals: &xmeal.Service{}, Cache: cache}, testToken)
	require.NoError(t, err)
	rec := do(t, srv.Handler(), http.MethodGet, "/admin/stats/dashboard", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, errorBody{Error: "Service Unavailable"}, decode[errorBody](t, rec))

	srv, err = New(Deps{Stats: stubStats{err: errors.New("boom")}, Meals: &xmeal.Service{}, Cache: cache}, testToken)
	require.NoError(t, err)
	rec = do(t, srv.Handler(), http.MethodGet, "/admin/stats/menu", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, errorBody{Error: "Internal Server Error"}, decode[errorBody](t, rec))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(fmt.Errorf("wrap: %w", xmeal.ErrBalanceConflict)))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(xmeal.WrapStoreError("x", errors.New("io"))))
	assert.Equal(t, http.StatusNotFound, statusFor(xmeal.WrapStoreError("x", xmeal.ErrOrderNotFound)))
}
