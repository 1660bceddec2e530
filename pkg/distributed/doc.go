// Package distributed 提供多实例协作相关的子包。
//
// 子包列表：
//   - xcron: 进程内定时任务，跳过重叠执行，带 panic 恢复与超时
//   - xinvalidate: 基于 Redis Pub/Sub 的缓存失效广播
//
// 设计原则：
//   - 广播尽力而为，丢消息只会让缓存多活一个 TTL
//   - 内置日志与可观测性
package distributed
