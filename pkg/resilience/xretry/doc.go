// Package xretry 在 avast/retry-go/v5 之上提供带退避策略的重试执行器。
//
// 用法：
//
//	r := xretry.NewRetryer(
//		xretry.WithAttempts(3),
//		xretry.WithBackoff(xretry.NewFixedBackoff(50*time.Millisecond)),
//		xretry.WithRetryIf(isTransient),
//	)
//	rows, err := xretry.DoWithResult(ctx, r, func(ctx context.Context) ([]Row, error) {
//		return store.Query(ctx)
//	})
//
// 用 Permanent 包装的错误不会重试；ctx 取消后立即停止并返回 ctx 错误。
package xretry
