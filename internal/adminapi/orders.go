package adminapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/util/xjson"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 64 << 10

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := xjson.DecodeStrict(http.MaxBytesReader(w, r.Body, maxBodyBytes), dst); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req xmeal.CreateOrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.deps.Meals.CreateOrder(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, order)
}

type statusRequest struct {
	Status xmeal.OrderStatus `json:"status"`
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	order, err := s.deps.Meals.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, order)
}

type balanceBody struct {
	CustomerID     string `json:"customer_id"`
	RemainingMeals int    `json:"remaining_meals"`
}

func (s *Server) packBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	n, err := s.deps.Meals.PackBalance(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, balanceBody{CustomerID: id, RemainingMeals: n})
}
