// Package adminapi 提供管理后台的 HTTP 接口：统计查询、缓存运维与下单。
//
// 除 /healthz 外的路由都挂在 /admin 下并要求 Authorization: Bearer <token>。
// 响应体为 JSON；错误统一为 {"error": "..."}，状态码由 statusFor 按错误类别映射。
package adminapi
