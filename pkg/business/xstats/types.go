package xstats

import (
	"time"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
)

// DashboardStats 仪表盘汇总
type DashboardStats struct {
	TotalOrders        int64     `json:"total_orders"`
	OrdersToday        int64     `json:"orders_today"`
	PendingOrders      int64     `json:"pending_orders"`
	RevenueCents       int64     `json:"revenue_cents"`
	ActiveCustomers    int64     `json:"active_customers"`
	ActivePacks        int64     `json:"active_packs"`
	RemainingPackMeals int64     `json:"remaining_pack_meals"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// OrderSummary 最近订单列表中的一行
type OrderSummary struct {
	ID             string            `json:"id"`
	CustomerID     string            `json:"customer_id"`
	Status         xmeal.OrderStatus `json:"status"`
	TotalMeals     int               `json:"total_meals"`
	AmountDueCents int64             `json:"amount_due_cents"`
	PaidWithPacks  bool              `json:"paid_with_packs"`
	CreatedAt      time.Time         `json:"created_at"`
}

// CategoryStatus 单个分类的菜品数
type CategoryStatus struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// MenuStatus 菜单概况
type MenuStatus struct {
	Total       int                       `json:"total"`
	Available   int                       `json:"available"`
	SoldOut     int                       `json:"sold_out"`
	ByCategory  map[string]CategoryStatus `json:"by_category"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// DashboardQuery 仪表盘查询的时间边界
type DashboardQuery struct {
	Now time.Time

	// DayStart 当天零点（按服务配置的时区）
	DayStart time.Time

	// ActiveSince 此后下过单的客户计为活跃
	ActiveSince time.Time
}

// DashboardCounts Store 返回的原始计数
type DashboardCounts struct {
	TotalOrders        int64
	OrdersToday        int64
	PendingOrders      int64
	RevenueCents       int64
	ActiveCustomers    int64
	ActivePacks        int64
	RemainingPackMeals int64
}

func summarize(o xmeal.Order) OrderSummary {
	return OrderSummary{
		ID:             o.ID,
		CustomerID:     o.CustomerID,
		Status:         o.Status,
		TotalMeals:     o.TotalMeals,
		AmountDueCents: o.AmountDueCents,
		PaidWithPacks:  o.PaidWithPacks,
		CreatedAt:      o.CreatedAt,
	}
}

func menuStatus(items []xmeal.MenuItem, now time.Time) MenuStatus {
	s := MenuStatus{
		ByCategory:  make(map[string]CategoryStatus),
		GeneratedAt: now,
	}
	for _, it := range items {
		c := s.ByCategory[it.Category]
		c.Total++
		s.Total++
		if it.Available {
			c.Available++
			s.Available++
		} else {
			s.SoldOut++
		}
		s.ByCategory[it.Category] = c
	}
	return s
}
