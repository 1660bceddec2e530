// Package xconf 基于 koanf 加载 YAML/JSON 配置，支持并发安全的 Reload 与文件监视。
//
// 只负责加载、反序列化与热重载。默认值由调用方在 Unmarshal 前预填到目标结构体，
// 配置中缺失的键不会覆盖预填值。
//
//	cfg, err := xconf.New("/etc/mealkit/mealadmin.yaml")
//	app := defaultAppConfig()
//	err = cfg.Unmarshal("", &app)
//
// # 并发
//
// Reload 解析成功后才替换 koanf 实例，失败时保留旧配置。
// Client() 返回的是调用时刻的快照，Reload 之后应重新获取。
//
// # 监视
//
// Watcher 监视配置文件所在目录（兼容编辑器的 rename 原子写入），
// 防抖后调用 Reload 并回调。Run(ctx) 阻塞至 ctx 取消，返回后不再有回调执行。
package xconf
