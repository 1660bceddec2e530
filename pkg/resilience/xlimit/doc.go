// Package xlimit 基于 Redis（go-redis/redis_rate，GCRA 算法）的分布式限流。
//
// 多个实例共享同一 Redis 时配额全局生效。Redis 不可用时默认放行（fail-open），
// 可用 WithFailClosed 改为拒绝。
//
//	l, _ := xlimit.New(rdb, xlimit.PerMinute(120))
//	r.Use(xlimit.HTTPMiddleware(l, xlimit.ByBearerToken))
package xlimit
