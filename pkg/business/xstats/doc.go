// Package xstats 提供后台统计（仪表盘、最近订单、菜单状态），
// 结果通过 xadmincache 记忆化。
//
// 读路径：
//  1. GetAs 命中直接返回
//  2. 未命中时以缓存键为粒度做 singleflight，同一键并发请求只回源一次
//  3. 回源经 xretry 重试，成功后 SetAs 写回；失败包装为 *DatabaseError，不缓存
//
// 缓存键是确定的字符串："dashboard_stats"、"recent_orders_<limit>"、"menu_status"。
// ClearCache 删除本服务写过的全部键，满足 xmeal.Invalidator。
package xstats
