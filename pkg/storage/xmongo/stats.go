package xmongo

// Stats 存储统计信息。
type Stats struct {
	PingCount   int64 `json:"ping_count"`
	PingErrors  int64 `json:"ping_errors"`
	Operations  int64 `json:"operations"`
	OpErrors    int64 `json:"op_errors"`
	SlowQueries int64 `json:"slow_queries"`

	// ActiveSessions 活跃会话数，来自 NumberSessionsInProgress。
	// driver v2 不暴露连接池细节，这是最接近"使用中连接数"的指标。
	ActiveSessions int `json:"active_sessions"`

	// BreakerState 未配置熔断器时为空
	BreakerState string `json:"breaker_state,omitempty"`
}
