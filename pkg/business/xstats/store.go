package xstats

import (
	"context"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
)

//go:generate mockgen -source=store.go -destination=mock_store_test.go -package=xstats

// Store 统计查询的数据源
type Store interface {
	DashboardCounts(ctx context.Context, q DashboardQuery) (DashboardCounts, error)

	// RecentOrders 按创建时间倒序返回最多 limit 条订单
	RecentOrders(ctx context.Context, limit int) ([]xmeal.Order, error)

	AllMenuItems(ctx context.Context) ([]xmeal.MenuItem, error)
}
