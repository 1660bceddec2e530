package xmeal

import "time"

// OrderStatus 订单状态
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions 允许的状态迁移
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusDelivered, StatusCancelled},
}

// Valid 是否为已知状态
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo pending→confirmed→delivered，pending/confirmed→cancelled。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MenuItem 菜品
type MenuItem struct {
	ID         string `json:"id" bson:"_id"`
	Name       string `json:"name" bson:"name"`
	Category   string `json:"category" bson:"category"`
	PriceCents int64  `json:"price_cents" bson:"price_cents"`
	Available  bool   `json:"available" bson:"available"`
}

// MealPack 餐包。ExpiresAt 为零值表示永不过期。
type MealPack struct {
	ID             string    `json:"id" bson:"_id"`
	CustomerID     string    `json:"customer_id" bson:"customer_id"`
	TotalMeals     int       `json:"total_meals" bson:"total_meals"`
	RemainingMeals int       `json:"remaining_meals" bson:"remaining_meals"`
	PurchasedAt    time.Time `json:"purchased_at" bson:"purchased_at"`
	ExpiresAt      time.Time `json:"expires_at,omitzero" bson:"expires_at,omitempty"`
}

// Usable 剩余餐数大于 0 且在 now 时未过期
func (p MealPack) Usable(now time.Time) bool {
	if p.RemainingMeals <= 0 {
		return false
	}
	return p.ExpiresAt.IsZero() || now.Before(p.ExpiresAt)
}

// OrderItem 订单行，下单时固化菜名与单价
type OrderItem struct {
	MenuItemID string `json:"menu_item_id" bson:"menu_item_id"`
	Name       string `json:"name" bson:"name"`
	Quantity   int    `json:"quantity" bson:"quantity"`
	UnitCents  int64  `json:"unit_cents" bson:"unit_cents"`
}

// Deduction 从一个餐包扣减的餐数
type Deduction struct {
	PackID string `json:"pack_id" bson:"pack_id"`
	Meals  int    `json:"meals" bson:"meals"`
}

// Order 订单
type Order struct {
	ID         string      `json:"id" bson:"_id"`
	CustomerID string      `json:"customer_id" bson:"customer_id"`
	Items      []OrderItem `json:"items" bson:"items"`
	TotalMeals int         `json:"total_meals" bson:"total_meals"`

	// TotalCents 按单价计算的总额；AmountDueCents 实付金额，餐包抵扣时为 0
	TotalCents     int64 `json:"total_cents" bson:"total_cents"`
	AmountDueCents int64 `json:"amount_due_cents" bson:"amount_due_cents"`

	PaidWithPacks bool        `json:"paid_with_packs" bson:"paid_with_packs"`
	Deductions    []Deduction `json:"deductions,omitempty" bson:"deductions,omitempty"`
	Status        OrderStatus `json:"status" bson:"status"`
	Notes         string      `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" bson:"updated_at"`
}

// LineItem 下单请求中的一行
type LineItem struct {
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	CustomerID   string     `json:"customer_id"`
	Items        []LineItem `json:"items"`
	UseMealPacks bool       `json:"use_meal_packs"`
	Notes        string     `json:"notes,omitempty"`
}
