// Package storage 提供数据存储相关的子包。
//
// 子包列表：
//   - xadmincache: 管理端 TTL 缓存，容量上限、按插入顺序淘汰、命中统计
//   - xmongo: MongoDB 订单存储，实现 xmeal.Store 与 xstats.Store
//   - xmemstore: 内存订单存储，用于演示与测试
//
// 设计原则：
//   - 业务包只依赖接口，存储后端可替换
//   - 内置可观测性（指标、追踪）
package storage
