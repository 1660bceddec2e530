// Package xbreaker 基于 sony/gobreaker 的熔断器。
//
// 熔断打开时操作不再执行，直接返回 *BreakerError（errors.Is(err, ErrOpen) 成立），
// 并被 xretry 视为不可重试。
//
// SuccessPolicy 决定哪些错误不计入失败，例如业务冲突、调用方主动取消：
//
//	b := xbreaker.New("mongo",
//	    xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(5)),
//	    xbreaker.WithSuccessPolicy(func(err error) bool { return errors.Is(err, context.Canceled) }),
//	)
//	err := b.Do(ctx, func() error { return coll.FindOne(ctx, filter).Err() })
package xbreaker
