package adminapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xlimit"
)

const component = "adminapi"

// Server 管理接口
type Server struct {
	deps     Deps
	token    []byte
	opts     *options
	logger   xlog.Logger
	observer xmetrics.Observer
	router   chi.Router
}

// New 创建管理接口。token 为空时拒绝创建。
func New(deps Deps, token string, opts ...Option) (*Server, error) {
	if deps.Stats == nil || deps.Meals == nil || deps.Cache == nil {
		return nil, ErrMissingDeps
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrEmptyToken
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	s := &Server{
		deps:     deps,
		token:    []byte(token),
		opts:     o,
		logger:   o.logger.With(xlog.Component(component)),
		observer: o.observer,
	}
	s.router = s.routes()
	return s, nil
}

// Handler 返回根路由
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.authenticate)
		if s.opts.limiter != nil {
			r.Use(xlimit.HTTPMiddleware(s.opts.limiter, xlimit.ByBearerToken))
		}
		r.Use(s.observe)

		r.Get("/stats/dashboard", s.dashboard)
		r.Get("/stats/recent-orders", s.recentOrders)
		r.Get("/stats/menu", s.menuStatus)

		r.Get("/cache/stats", s.cacheStats)
		r.Get("/cache/keys", s.cacheKeys)
		r.Post("/cache/clear", s.cacheClear)
		r.Post("/cache/cleanup", s.cacheCleanup)
		r.Delete("/cache/{key}", s.cacheDelete)

		r.Post("/orders", s.createOrder)
		r.Patch("/orders/{id}/status", s.updateOrderStatus)
		r.Get("/customers/{id}/pack-balance", s.packBalance)
	})
	return r
}

// authenticate 校验 Bearer token，常量时间比较
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok || subtle.ConstantTimeCompare([]byte(token), s.token) != 1 {
			w.Header().Set("WWW-Authenticate", `Bearer realm="mealkit-admin"`)
			s.writeJSON(w, r, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// observe 每个请求一个 server span，路由模板在处理完成后才确定
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ctx, span := xmetrics.Start(r.Context(), s.observer, xmetrics.SpanOptions{
			Component: component,
			Operation: "request",
			Kind:      xmetrics.KindServer,
			Attrs:     []xmetrics.Attr{xmetrics.String("http.method", r.Method)},
		})
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		result := xmetrics.Result{
			Status: xmetrics.StatusOK,
			Attrs: []xmetrics.Attr{
				xmetrics.Int("http.status_code", status),
				xmetrics.String("http.route", routePattern(r)),
			},
		}
		if status >= http.StatusInternalServerError {
			result.Status = xmetrics.StatusError
		}
		span.End(result)
		s.logger.Debug(ctx, "admin request",
			xlog.Path(r.URL.Path), xlog.StatusCode(status), xlog.Duration(time.Since(start)))
	})
}

// healthBody /healthz 不需认证，失败原因只写日志
type healthBody struct {
	Status string `json:"status"`
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.opts.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.opts.healthTimeout)
		defer cancel()
		if err := s.opts.health(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", xlog.Err(err))
			s.writeJSON(w, r, http.StatusServiceUnavailable, healthBody{Status: "unavailable"})
			return
		}
	}
	s.writeJSON(w, r, http.StatusOK, healthBody{Status: "ok"})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
