// Package xmongo 是基于 MongoDB 的存储后端，同时实现 xmeal.Store 与 xstats.Store。
//
// # 集合
//
//   - menu_items：菜品，_id 为菜品 ID
//   - meal_packs：餐包，_id 为餐包 ID
//   - orders：订单，_id 为订单号
//
// # 一致性
//
// CommitOrder 与 UpdateOrderStatus 在会话事务中执行，需要副本集或分片集群。
// 扣减餐包使用带条件的 $inc（remaining_meals >= n），任一餐包条件不满足时
// 事务回滚并返回 xmeal.ErrBalanceConflict，由上层重新规划。
//
// # 观测
//
// 每个操作都会进入统计（Stats）、慢查询检测与 xmetrics span。
// Health 使用 Ping 并带独立超时。
//
// # 超时兜底
//
// 调用方 context 没有 deadline 时，读操作使用 QueryTimeout（默认 30 秒），
// 写操作使用 WriteTimeout（默认 60 秒）。传入 0 禁用兜底。
//
// Close 可安全重复调用，首次关闭执行断连，后续调用返回 ErrClosed。
// Close 之后除 Stats 外的方法都返回 ErrClosed。
package xmongo
