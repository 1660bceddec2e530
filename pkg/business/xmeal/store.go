package xmeal

import (
	"context"
	"time"
)

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=xmeal

// Store 订单与餐包的持久化
type Store interface {
	// MenuItems 按 ID 批量读取菜品，不存在的 ID 不出现在结果中。
	MenuItems(ctx context.Context, ids []string) (map[string]MenuItem, error)

	// CustomerPacks 返回客户剩余餐数大于 0 的餐包，过期判断由调用方完成。
	CustomerPacks(ctx context.Context, customerID string) ([]MealPack, error)

	// CommitOrder 原子地写入订单并按 order.Deductions 扣减餐包。
	// 任一餐包余额不足扣减时整体回滚并返回 ErrBalanceConflict。
	CommitOrder(ctx context.Context, order Order) error

	// Order 读取订单，不存在返回 ErrOrderNotFound。
	Order(ctx context.Context, id string) (Order, error)

	// UpdateOrderStatus 仅当订单当前状态为 from 时改为 to，并把 restore 中的餐数
	// 加回对应餐包（取消订单时使用）。状态已被并发修改返回 ErrInvalidTransition，
	// 订单不存在返回 ErrOrderNotFound。
	UpdateOrderStatus(ctx context.Context, id string, from, to OrderStatus, restore []Deduction, at time.Time) error
}

// Invalidator 订单数据变化后使派生缓存失效
type Invalidator interface {
	ClearCache(ctx context.Context)
}

// IDGenerator 订单号生成，*xid.Generator 满足该接口
type IDGenerator interface {
	NewString() (string, error)
}
