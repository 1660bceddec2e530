// Package xadmincache 提供带 TTL 与容量上限的进程内缓存，用于记忆化后台统计
// 这类昂贵的只读聚合查询。
//
// # 语义
//
//   - 每个条目记录写入时间 storedAt 与 ttl；now-storedAt > ttl（严格大于）后条目
//     逻辑上不存在。恰好等于 ttl 时仍然有效。
//   - 过期是惰性的：Get/Has 命中过期条目时才删除；Keys 只过滤不删除；
//     Cleanup 批量清扫。定期清扫由调用方调度（见 xcron）。
//   - 容量满时写入新键，先淘汰插入顺序最早的一个条目。读操作不改变顺序，
//     覆盖写会把键移到最新位置，覆盖写从不触发淘汰。
//   - 所有操作都不返回错误，未命中、过期和淘汰只体现在日志与统计计数中。
//
// # 类型安全
//
// 值以 any 存储。通过 Key[V] 与 GetAs/SetAs 在调用点恢复静态类型，
// 动态类型不符时按未命中处理：
//
//	var dashboardKey = xadmincache.NewKey[DashboardStats]("dashboard_stats")
//
//	if v, ok := xadmincache.GetAs(cache, dashboardKey); ok {
//		return v, nil
//	}
//
// # 并发
//
// Cache 由一把互斥锁保护，"淘汰后插入"在同一临界区内完成。
// 缓存内部不做 singleflight，需要防击穿时由调用方处理。
package xadmincache
