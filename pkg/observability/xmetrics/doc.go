// Package xmetrics 提供统一的观测抽象（Observer/Span），把一次操作同时记录为
// trace span 与 metrics。
//
// 业务组件只依赖 Observer 接口，未配置时使用 NoopObserver；生产环境通过
// NewOTelObserver 接入 OpenTelemetry，记录：
//   - mealkit.operation.total     计数，维度 component/operation/status
//   - mealkit.operation.duration  耗时直方图（秒），维度同上
//
// 典型用法：
//
//	ctx, span := xmetrics.Start(ctx, observer, xmetrics.SpanOptions{
//		Component: "xstats",
//		Operation: "dashboard",
//	})
//	defer func() { span.End(xmetrics.Result{Err: err}) }()
package xmetrics
