package xmemstore

import (
	"time"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
)

// Seed 写入演示数据：一份菜单与两位客户的餐包。
func Seed(s *Store, now time.Time) {
	for _, m := range []xmeal.MenuItem{
		{ID: "teriyaki-bowl", Name: "Teriyaki Chicken Bowl", Category: "mains", PriceCents: 1290, Available: true},
		{ID: "salmon-plate", Name: "Roast Salmon Plate", Category: "mains", PriceCents: 1590, Available: true},
		{ID: "veggie-curry", Name: "Vegetable Curry", Category: "mains", PriceCents: 1190, Available: false},
		{ID: "caesar-salad", Name: "Caesar Salad", Category: "sides", PriceCents: 690, Available: true},
		{ID: "miso-soup", Name: "Miso Soup", Category: "sides", PriceCents: 390, Available: true},
	} {
		s.PutMenuItem(m)
	}
	for _, p := range []xmeal.MealPack{
		{ID: "pack-alice-1", CustomerID: "alice", TotalMeals: 10, RemainingMeals: 2, PurchasedAt: now.AddDate(0, -2, 0)},
		{ID: "pack-alice-2", CustomerID: "alice", TotalMeals: 20, RemainingMeals: 20, PurchasedAt: now.AddDate(0, 0, -3)},
		{ID: "pack-bob-1", CustomerID: "bob", TotalMeals: 10, RemainingMeals: 6, PurchasedAt: now.AddDate(0, -1, 0), ExpiresAt: now.AddDate(0, 1, 0)},
	} {
		s.PutPack(p)
	}
}
