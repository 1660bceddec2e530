package xmongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/business/xstats"
)

// ===== xstats.Store =====

type countRow struct {
	N int64 `bson:"n"`
}

type sumRow struct {
	Sum int64 `bson:"sum"`
}

type orderFacets struct {
	Total   []countRow `bson:"total"`
	Today   []countRow `bson:"today"`
	Pending []countRow `bson:"pending"`
	Revenue []sumRow   `bson:"revenue"`
	Active  []countRow `bson:"active"`
}

type packTotals struct {
	Packs int64 `bson:"packs"`
	Meals int64 `bson:"meals"`
}

// orderCountsPipeline 一次 $facet 聚合得到全部订单维度的计数
func orderCountsPipeline(q xstats.DashboardQuery) bson.A {
	count := bson.M{"$count": "n"}
	return bson.A{
		bson.M{"$facet": bson.M{
			"total":   bson.A{count},
			"today":   bson.A{bson.M{"$match": bson.M{"created_at": bson.M{"$gte": q.DayStart}}}, count},
			"pending": bson.A{bson.M{"$match": bson.M{"status": xmeal.StatusPending}}, count},
			"revenue": bson.A{
				bson.M{"$match": bson.M{"status": bson.M{"$ne": xmeal.StatusCancelled}}},
				bson.M{"$group": bson.M{"_id": nil, "sum": bson.M{"$sum": "$amount_due_cents"}}},
			},
			"active": bson.A{
				bson.M{"$match": bson.M{"created_at": bson.M{"$gte": q.ActiveSince}}},
				bson.M{"$group": bson.M{"_id": "$customer_id"}},
				count,
			},
		}},
	}
}

// usablePackFilter 与 xmeal.MealPack.Usable 一致：有余额且未过期，零值 expires_at 表示永不过期
func usablePackFilter(now time.Time) bson.M {
	return bson.M{
		"remaining_meals": bson.M{"$gt": 0},
		"$or": bson.A{
			bson.M{"expires_at": bson.M{"$exists": false}},
			bson.M{"expires_at": nil},
			bson.M{"expires_at": time.Time{}},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}
}

func packTotalsPipeline(now time.Time) bson.A {
	return bson.A{
		bson.M{"$match": usablePackFilter(now)},
		bson.M{"$group": bson.M{
			"_id":   nil,
			"packs": bson.M{"$sum": 1},
			"meals": bson.M{"$sum": "$remaining_meals"},
		}},
	}
}

func firstCount(rows []countRow) int64 {
	if len(rows) == 0 {
		return 0
	}
	return rows[0].N
}

func (f orderFacets) apply(c *xstats.DashboardCounts) {
	c.TotalOrders = firstCount(f.Total)
	c.OrdersToday = firstCount(f.Today)
	c.PendingOrders = firstCount(f.Pending)
	c.ActiveCustomers = firstCount(f.Active)
	if len(f.Revenue) > 0 {
		c.RevenueCents = f.Revenue[0].Sum
	}
}

func (s *Store) DashboardCounts(ctx context.Context, q xstats.DashboardQuery) (xstats.DashboardCounts, error) {
	var counts xstats.DashboardCounts

	err := s.run(ctx, opRead, CollectionOrders, "dashboard_orders", nil, func(ctx context.Context) error {
		cur, err := s.orders.Aggregate(ctx, orderCountsPipeline(q))
		if err != nil {
			return err
		}
		var rows []orderFacets
		if err := cur.All(ctx, &rows); err != nil {
			return err
		}
		if len(rows) > 0 {
			rows[0].apply(&counts)
		}
		return nil
	})
	if err != nil {
		return xstats.DashboardCounts{}, err
	}

	err = s.run(ctx, opRead, CollectionMealPacks, "dashboard_packs", nil, func(ctx context.Context) error {
		cur, err := s.packs.Aggregate(ctx, packTotalsPipeline(q.Now))
		if err != nil {
			return err
		}
		var rows []packTotals
		if err := cur.All(ctx, &rows); err != nil {
			return err
		}
		if len(rows) > 0 {
			counts.ActivePacks = rows[0].Packs
			counts.RemainingPackMeals = rows[0].Meals
		}
		return nil
	})
	if err != nil {
		return xstats.DashboardCounts{}, err
	}
	return counts, nil
}

func (s *Store) RecentOrders(ctx context.Context, limit int) ([]xmeal.Order, error) {
	var orders []xmeal.Order
	err := s.run(ctx, opRead, CollectionOrders, "recent_orders", nil, func(ctx context.Context) error {
		opts := options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
		if limit > 0 {
			opts = opts.SetLimit(int64(limit))
		}
		return findAll(ctx, s.orders, bson.M{}, &orders, opts)
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) AllMenuItems(ctx context.Context) ([]xmeal.MenuItem, error) {
	var items []xmeal.MenuItem
	err := s.run(ctx, opRead, CollectionMenuItems, "all_menu_items", nil, func(ctx context.Context) error {
		return findAll(ctx, s.menu, bson.M{}, &items,
			options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}
