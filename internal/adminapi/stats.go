package adminapi

import (
	"fmt"
	"net/http"
	"strconv"
)

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Stats.DashboardStats(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, stats)
}

// recentOrders limit 缺省时由服务取默认值，越界时被夹到合法范围
func (s *Server) recentOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: limit must be an integer", errBadRequest))
			return
		}
		limit = n
	}
	orders, err := s.deps.Stats.RecentOrders(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, orders)
}

func (s *Server) menuStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.deps.Stats.MenuStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, status)
}
