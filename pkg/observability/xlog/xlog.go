package xlog

import (
	"context"
	"log/slog"
)

// Logger 日志接口
//
// 方法签名只接受 slog.Attr，避免隐式 key-value 转换。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带固定属性的派生 Logger，派生 logger 共享父级的级别。
	With(attrs ...slog.Attr) Logger

	// WithGroup 返回带分组的派生 Logger。
	WithGroup(name string) Logger
}

// Leveler 级别控制接口
//
// 与 Logger 分离，通过类型断言检查具体实现是否支持动态级别。
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level

	// Enabled 在构造昂贵的日志参数前检查级别是否启用。
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 组合接口：Logger + Leveler
//
// Build() 返回此接口，配置热更新时直接调用 SetLevel。
type LoggerWithLevel interface {
	Logger
	Leveler
}

// Discard 返回丢弃所有输出的 Logger。
//
// 组件未注入 logger 时以它作为默认值，调用方不必判空。
func Discard() Logger {
	return discardLogger{}
}

type discardLogger struct{}

func (discardLogger) Debug(context.Context, string, ...slog.Attr) {}
func (discardLogger) Info(context.Context, string, ...slog.Attr)  {}
func (discardLogger) Warn(context.Context, string, ...slog.Attr)  {}
func (discardLogger) Error(context.Context, string, ...slog.Attr) {}
func (d discardLogger) With(...slog.Attr) Logger                  { return d }
func (d discardLogger) WithGroup(string) Logger                   { return d }
