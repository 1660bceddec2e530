package xbreaker

import "github.com/sony/gobreaker/v2"

// Counts 统计窗口内的计数
type Counts = gobreaker.Counts

// State 熔断器状态
type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// TripPolicy 返回 true 时熔断器从 Closed 转为 Open
type TripPolicy interface {
	ReadyToTrip(counts Counts) bool
}

// ConsecutiveFailures 连续失败达到阈值时熔断
type ConsecutiveFailures struct {
	threshold uint32
}

// NewConsecutiveFailures threshold 为 0 时按 1 处理
func NewConsecutiveFailures(threshold uint32) *ConsecutiveFailures {
	return &ConsecutiveFailures{threshold: max(threshold, 1)}
}

func (p *ConsecutiveFailures) ReadyToTrip(c Counts) bool {
	return c.ConsecutiveFailures >= p.threshold
}

// FailureRatio 请求数达到 minRequests 后失败率不低于 ratio 时熔断
type FailureRatio struct {
	ratio       float64
	minRequests uint32
}

// NewFailureRatio ratio 夹到 [0,1]
func NewFailureRatio(ratio float64, minRequests uint32) *FailureRatio {
	return &FailureRatio{ratio: min(max(ratio, 0), 1), minRequests: minRequests}
}

func (p *FailureRatio) ReadyToTrip(c Counts) bool {
	if c.Requests == 0 || c.Requests < p.minRequests {
		return false
	}
	return float64(c.TotalFailures)/float64(c.Requests) >= p.ratio
}
