package xmongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/omeyang/mealkit/pkg/business/xstats"
)

func TestOrderFacets_Apply(t *testing.T) {
	f := orderFacets{
		Total:   []countRow{{N: 12}},
		Today:   []countRow{{N: 3}},
		Revenue: []sumRow{{Sum: 4500}},
		Active:  []countRow{{N: 5}},
	}
	var c xstats.DashboardCounts
	f.apply(&c)

	assert.Equal(t, xstats.DashboardCounts{
		TotalOrders:     12,
		OrdersToday:     3,
		PendingOrders:   0,
		RevenueCents:    4500,
		ActiveCustomers: 5,
	}, c)
}

// $facet 的结果文档能解码成 orderFacets
func TestOrderFacets_Decode(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"total":   bson.A{bson.M{"n": int32(7)}},
		"today":   bson.A{},
		"pending": bson.A{bson.M{"n": int32(2)}},
		"revenue": bson.A{bson.M{"_id": nil, "sum": int64(990)}},
		"active":  bson.A{bson.M{"n": int32(1)}},
	})
	require.NoError(t, err)

	var f orderFacets
	require.NoError(t, bson.Unmarshal(raw, &f))
	var c xstats.DashboardCounts
	f.apply(&c)
	assert.Equal(t, int64(7), c.TotalOrders)
	assert.Zero(t, c.OrdersToday)
	assert.Equal(t, int64(2), c.PendingOrders)
	assert.Equal(t, int64(990), c.RevenueCents)
	assert.Equal(t, int64(1), c.ActiveCustomers)
}

func TestUsablePackFilter(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	f := usablePackFilter(now)

	assert.Equal(t, bson.M{"$gt": 0}, f["remaining_meals"])
	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	assert.Contains(t, or, bson.M{"expires_at": bson.M{"$gt": now}})
	assert.Contains(t, or, bson.M{"expires_at": bson.M{"$exists": false}})
}

func TestOrderCountsPipeline_Boundaries(t *testing.T) {
	q := xstats.DashboardQuery{
		DayStart:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		ActiveSince: time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC),
	}
	p := orderCountsPipeline(q)
	require.Len(t, p, 1)

	facet := p[0].(bson.M)["$facet"].(bson.M)
	today := facet["today"].(bson.A)
	assert.Equal(t, bson.M{"$match": bson.M{"created_at": bson.M{"$gte": q.DayStart}}}, today[0])
	active := facet["active"].(bson.A)
	assert.Equal(t, bson.M{"$match": bson.M{"created_at": bson.M{"$gte": q.ActiveSince}}}, active[0])
	assert.Len(t, active, 3)
}
