package xlimit

import (
	"net"
	"net/http"
	"strings"
)

// KeyFunc 从请求提取限流键，返回空串表示不限流
type KeyFunc func(r *http.Request) string

// ByRemoteIP 按客户端 IP
func ByRemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return "ip:" + host
}

// ByBearerToken 按 Bearer token，无 token 时回落到 IP
func ByBearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
		return "token:" + strings.TrimSpace(token)
	}
	return ByRemoteIP(r)
}

// HTTPMiddleware 超出配额时返回 429
func HTTPMiddleware(l *Limiter, keyFn KeyFunc) func(http.Handler) http.Handler {
	if l == nil {
		panic("xlimit: HTTPMiddleware requires a non-nil Limiter")
	}
	if keyFn == nil {
		keyFn = ByRemoteIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			res, err := l.Allow(r.Context(), key)
			res.SetHeaders(w)
			if err != nil {
				writeError(w, http.StatusServiceUnavailable, "rate limiter unavailable")
				return
			}
			if !res.Allowed {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}` + "\n"))
}
