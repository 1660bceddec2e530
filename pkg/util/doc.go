// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xid: 基于 Sonyflake 的分布式 ID 生成
//   - xjson: JSON 编解码工具，Pretty 格式化输出、严格解码
//   - xproc: 进程信息查询，PID 和进程名称
package util
