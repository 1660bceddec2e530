// Package xmeal 实现订单创建与餐包余额扣减。
//
// 客户预购餐包（MealPack），下单时可选择用餐包抵扣。扣减规则：
//   - 只使用可用餐包：剩余餐数 > 0 且未过期
//   - 按购买时间从早到晚消耗，购买时间相同按 ID 排序
//   - 可用餐数总和不足时整体失败（ErrInsufficientBalance），不产生部分扣减
//
// PlanDeductions 是纯函数；Service 负责校验、计价、调用 Store 原子提交，
// 并在订单变化后通过 Invalidator 使统计缓存失效。
//
// Store 的并发冲突（餐包余额在规划与提交之间被其他订单消耗）以
// ErrBalanceConflict 表示，Service 会重新读取余额并重新规划。
package xmeal
