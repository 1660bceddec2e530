package xlimit

import (
	"math"
	"net/http"
	"strconv"
	"time"
)

// Result 一次限流检查的结果
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter 仅在拒绝时有意义
	RetryAfter time.Duration

	Key string
}

// SetHeaders 写入 X-RateLimit-* 与 Retry-After。Limit 为 0（降级放行）时不写配额头。
func (r Result) SetHeaders(w http.ResponseWriter) {
	if r.Limit <= 0 {
		return
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(r.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(r.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(r.ResetAt.Unix(), 10))
	if !r.Allowed && r.RetryAfter > 0 {
		// 向上取整，亚秒等待不能变成 0
		h.Set("Retry-After", strconv.FormatInt(int64(math.Ceil(r.RetryAfter.Seconds())), 10))
	}
}
