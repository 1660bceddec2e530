package xadmincache

import "time"

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration
}

// isExpired 读路径与清扫共用的唯一过期判定。
// 经过时间恰好等于 ttl 时仍然有效。
func isExpired(e entry, now time.Time) bool {
	return now.Sub(e.storedAt) > e.ttl
}
