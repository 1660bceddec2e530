// Package storageopt 提供存储后端共享的小工具。
//
// 本包是 internal 包，仅供 pkg/storage 下的后端（目前是 xmongo）使用。
//
// 主要功能：
//   - 健康检查超时
//   - 慢操作检测（同步钩子）
//   - 原子计数器（HealthCounter、OpCounter、SlowQueryCounter）
package storageopt
