// Package xinvalidate 通过 Redis pub/sub 在多个实例之间广播统计缓存失效。
//
// 每个实例持有自己的进程内缓存。本实例下单或改单后，先清本地缓存，
// 再经 Bus.Publish 通知其他实例；订阅端收到消息后调用本地 ClearCache。
// 消息携带来源实例 ID，实例会忽略自己发出的消息。
//
// pub/sub 不保证送达：订阅断开期间的消息会丢失，各实例的缓存仍会在 TTL 到期后自行刷新。
//
// 典型用法：
//
//	bus, _ := xinvalidate.New(rdb, xinvalidate.WithLogger(logger))
//	meals, _ := xmeal.NewService(store, ids, xmeal.WithInvalidator(xinvalidate.Broadcast(stats, bus)))
//	group.Go(func(ctx context.Context) error { return bus.Run(ctx, stats) })
package xinvalidate
