package xmetrics

import "time"

func String(key, value string) Attr {
	return Attr{Key: key, Value: value}
}

func Bool(key string, value bool) Attr {
	return Attr{Key: key, Value: value}
}

func Int(key string, value int) Attr {
	return Attr{Key: key, Value: value}
}

func Int64(key string, value int64) Attr {
	return Attr{Key: key, Value: value}
}

// Duration 以纳秒整数记录，key 建议带单位后缀。
func Duration(key string, value time.Duration) Attr {
	return Attr{Key: key, Value: value}
}

// 业务常用属性
const (
	AttrCacheHit  = "cache.hit"
	AttrCacheKey  = "cache.key"
	AttrRetries   = "retry.attempts"
	AttrLimit     = "query.limit"
	AttrHTTPRoute = "http.route"
)
