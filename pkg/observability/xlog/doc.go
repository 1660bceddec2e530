// Package xlog 提供基于 log/slog 的结构化日志。
//
// 所有日志方法第一个参数都是 context.Context，属性只接受 slog.Attr。
// 通过 Builder 构建 Logger，可设置级别、输出格式（text/json）、
// 输出目标以及基于 lumberjack 的文件轮转：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/mealadmin/app.log", xlog.RotateMaxSizeMB(64)).
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// Build 返回的 LoggerWithLevel 支持运行时调整级别，派生 logger（With/WithGroup）
// 共享同一个级别变量。组件内部不需要日志时使用 Discard()。
package xlog
