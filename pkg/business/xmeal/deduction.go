package xmeal

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// PlanDeductions 规划从 packs 中扣减 meals 餐。
//
// 只考虑 now 时可用的餐包，按购买时间升序（相同按 ID）依次扣减。
// 可用余额不足返回 ErrInsufficientBalance，meals <= 0 返回 ErrInvalidRequest。
// 不修改入参。
func PlanDeductions(packs []MealPack, meals int, now time.Time) ([]Deduction, error) {
	if meals <= 0 {
		return nil, fmt.Errorf("%w: meals must be positive, got %d", ErrInvalidRequest, meals)
	}

	usable := make([]MealPack, 0, len(packs))
	available := 0
	for _, p := range packs {
		if p.Usable(now) {
			usable = append(usable, p)
			available += p.RemainingMeals
		}
	}
	if available < meals {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientBalance, meals, available)
	}

	slices.SortFunc(usable, func(a, b MealPack) int {
		if c := a.PurchasedAt.Compare(b.PurchasedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	plan := make([]Deduction, 0, len(usable))
	remaining := meals
	for _, p := range usable {
		if remaining == 0 {
			break
		}
		take := min(p.RemainingMeals, remaining)
		plan = append(plan, Deduction{PackID: p.ID, Meals: take})
		remaining -= take
	}
	return plan, nil
}

// Balance 返回 now 时可用餐包的剩余餐数之和
func Balance(packs []MealPack, now time.Time) int {
	total := 0
	for _, p := range packs {
		if p.Usable(now) {
			total += p.RemainingMeals
		}
	}
	return total
}
