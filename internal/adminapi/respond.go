package adminapi

import (
	"errors"
	"net/http"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/util/xjson"
)

// errBadRequest 请求体或查询参数无法解析
var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := xjson.Encode(w, v, false); err != nil {
		s.logger.Warn(r.Context(), "write response failed", xlog.Path(r.URL.Path), xlog.Err(err))
	}
}

// writeError 5xx 只返回通用信息，细节写日志
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error(r.Context(), "admin request failed",
			xlog.Path(r.URL.Path), xlog.StatusCode(status), xlog.Err(err))
		msg = http.StatusText(status)
	default:
		s.logger.Debug(r.Context(), "admin request rejected",
			xlog.Path(r.URL.Path), xlog.StatusCode(status), xlog.Err(err))
	}
	s.writeJSON(w, r, status, errorBody{Error: msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, xmeal.ErrInvalidRequest),
		errors.Is(err, xmeal.ErrUnknownMenuItem),
		errors.Is(err, xmeal.ErrMenuItemUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, xmeal.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, xmeal.ErrInsufficientBalance),
		errors.Is(err, xmeal.ErrBalanceConflict),
		errors.Is(err, xmeal.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, xmeal.ErrDatabase):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
