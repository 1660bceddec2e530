// Package xjson 提供 JSON 输出工具函数，供 HTTP 响应与命令行输出共用。
//
//   - [Encode]: 写入 io.Writer，可选缩进
//   - [PrettyE]: 格式化为字符串，失败返回 [ErrMarshal] 包装的错误
//   - [Pretty]: 便捷版本，用于日志与调试，失败时返回 "<marshal error: ...>"
//
// 遵循 [encoding/json] 默认行为，HTML 特殊字符会被转义。
package xjson
