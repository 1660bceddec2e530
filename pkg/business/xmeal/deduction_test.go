package xmeal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func pack(id string, remaining int, purchasedDaysAgo int) MealPack {
	return MealPack{
		ID:             id,
		CustomerID:     "c1",
		TotalMeals:     10,
		RemainingMeals: remaining,
		PurchasedAt:    day0.AddDate(0, 0, -purchasedDaysAgo),
	}
}

func TestPlanDeductions_OldestFirst(t *testing.T) {
	packs := []MealPack{
		pack("new", 10, 1),
		pack("old", 3, 30),
		pack("mid", 5, 10),
	}
	plan, err := PlanDeductions(packs, 7, day0)
	require.NoError(t, err)
	assert.Equal(t, []Deduction{
		{PackID: "old", Meals: 3},
		{PackID: "mid", Meals: 4},
	}, plan)
	assert.Equal(t, "new", packs[0].ID, "input order untouched")
}

func TestPlanDeductions_ExactBalance(t *testing.T) {
	plan, err := PlanDeductions([]MealPack{pack("a", 2, 2), pack("b", 3, 1)}, 5, day0)
	require.NoError(t, err)
	assert.Equal(t, []Deduction{{PackID: "a", Meals: 2}, {PackID: "b", Meals: 3}}, plan)
}

func TestPlanDeductions_TieBrokenByID(t *testing.T) {
	plan, err := PlanDeductions([]MealPack{pack("b", 5, 3), pack("a", 5, 3)}, 6, day0)
	require.NoError(t, err)
	assert.Equal(t, []Deduction{{PackID: "a", Meals: 5}, {PackID: "b", Meals: 1}}, plan)
}

func TestPlanDeductions_SkipsUnusable(t *testing.T) {
	expired := pack("expired", 10, 60)
	expired.ExpiresAt = day0.Add(-time.Hour)
	expiresNow := pack("expires-now", 10, 50)
	expiresNow.ExpiresAt = day0

	plan, err := PlanDeductions([]MealPack{expired, expiresNow, pack("empty", 0, 40), pack("ok", 4, 1)}, 4, day0)
	require.NoError(t, err)
	assert.Equal(t, []Deduction{{PackID: "ok", Meals: 4}}, plan)
}

func TestPlanDeductions_Insufficient(t *testing.T) {
	plan, err := PlanDeductions([]MealPack{pack("a", 2, 1)}, 3, day0)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Nil(t, plan)

	_, err = PlanDeductions(nil, 1, day0)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestPlanDeductions_NonPositiveMeals(t *testing.T) {
	_, err := PlanDeductions([]MealPack{pack("a", 2, 1)}, 0, day0)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBalance(t *testing.T) {
	expired := pack("x", 9, 5)
	expired.ExpiresAt = day0.Add(-time.Second)
	assert.Equal(t, 7, Balance([]MealPack{pack("a", 3, 1), pack("b", 4, 2), expired}, day0))
	assert.Zero(t, Balance(nil, day0))
}

func TestOrderStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusDelivered, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusConfirmed, StatusPending, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
	assert.False(t, OrderStatus("shipped").Valid())
}
