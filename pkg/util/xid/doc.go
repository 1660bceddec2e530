// Package xid 基于 Sonyflake v2 生成趋势递增的 63 位唯一 ID，
// 对外以 base36 字符串表示（如订单号）。
//
// 位布局：39 位时间（10ms 单位）+ 8 位序列 + 16 位机器 ID。
//
// 机器 ID 按以下顺序确定：
//  1. MEALKIT_MACHINE_ID 环境变量（0-65535）
//  2. os.Hostname() 的 xxhash 折叠到 16 位
//
// 多实例部署且实例数较多时，应显式设置 MEALKIT_MACHINE_ID 避免哈希碰撞。
package xid
