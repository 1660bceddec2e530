package xlog

import (
	"log/slog"
	"time"
)

// ===== 标准字段名 =====

const (
	KeyError      = "error"
	KeyDuration   = "duration"
	KeyCount      = "count"
	KeyComponent  = "component"
	KeyOperation  = "operation"
	KeyCacheKey   = "cache_key"
	KeyCustomerID = "customer_id"
	KeyOrderID    = "order_id"
	KeyStatusCode = "status_code"
	KeyPath       = "path"
)

// ===== 属性构造 =====

// Err 创建错误属性。err 为 nil 时返回空属性，slog 会忽略它。
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性，使用 Duration.String() 便于人工阅读。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Component 标识日志来源组件
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 标识当前操作
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Key 缓存键
func Key(k string) slog.Attr {
	return slog.String(KeyCacheKey, k)
}

func CustomerID(id string) slog.Attr {
	return slog.String(KeyCustomerID, id)
}

func OrderID(id string) slog.Attr {
	return slog.String(KeyOrderID, id)
}

func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}
