// Package xmemstore 是进程内存储，同时实现 xmeal.Store 与 xstats.Store。
//
// 用于测试与演示模式（mealadmin serve --demo），语义与 xmongo 一致：
// CommitOrder 原子提交订单与扣减，余额不足返回 xmeal.ErrBalanceConflict；
// UpdateOrderStatus 以当前状态做比较交换。
package xmemstore
