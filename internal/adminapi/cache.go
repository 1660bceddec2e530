package adminapi

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/storage/xadmincache"
)

type cacheStatsBody struct {
	xadmincache.Stats
	HitRatio float64 `json:"hit_ratio"`
}

func (s *Server) cacheStats(w http.ResponseWriter, r *http.Request) {
	st := s.deps.Cache.Stats()
	s.writeJSON(w, r, http.StatusOK, cacheStatsBody{Stats: st, HitRatio: st.HitRatio()})
}

type keysBody struct {
	Keys []string `json:"keys"`
}

func (s *Server) cacheKeys(w http.ResponseWriter, r *http.Request) {
	keys := s.deps.Cache.Keys()
	if keys == nil {
		keys = []string{}
	}
	s.writeJSON(w, r, http.StatusOK, keysBody{Keys: keys})
}

type countBody struct {
	Removed int `json:"removed"`
}

func (s *Server) cacheClear(w http.ResponseWriter, r *http.Request) {
	s.deps.Cache.Clear()
	s.logger.Info(r.Context(), "admin cleared cache")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) cacheCleanup(w http.ResponseWriter, r *http.Request) {
	n := s.deps.Cache.Cleanup()
	s.writeJSON(w, r, http.StatusOK, countBody{Removed: n})
}

func (s *Server) cacheDelete(w http.ResponseWriter, r *http.Request) {
	key, err := keyParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !s.deps.Cache.Delete(key) {
		s.writeJSON(w, r, http.StatusNotFound, errorBody{Error: "cache key not found"})
		return
	}
	s.logger.Info(r.Context(), "admin deleted cache key", xlog.Key(key))
	w.WriteHeader(http.StatusNoContent)
}

// keyParam chi 在 RawPath 非空时按 RawPath 路由，参数仍是转义形式（如 a%2Fb）。
func keyParam(r *http.Request) (string, error) {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath == "" {
		return key, nil
	}
	unescaped, err := url.PathUnescape(key)
	if err != nil {
		return "", fmt.Errorf("%w: cache key: %v", errBadRequest, err)
	}
	return unescaped, nil
}
