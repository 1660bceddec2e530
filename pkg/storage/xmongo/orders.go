package xmongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
)

// ===== xmeal.Store =====

func (s *Store) MenuItems(ctx context.Context, ids []string) (map[string]xmeal.MenuItem, error) {
	out := make(map[string]xmeal.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	err := s.run(ctx, opRead, CollectionMenuItems, "menu_items", filter, func(ctx context.Context) error {
		var items []xmeal.MenuItem
		if err := findAll(ctx, s.menu, filter, &items); err != nil {
			return err
		}
		for _, it := range items {
			out[it.ID] = it
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CustomerPacks(ctx context.Context, customerID string) ([]xmeal.MealPack, error) {
	filter := bson.M{"customer_id": customerID, "remaining_meals": bson.M{"$gt": 0}}
	var packs []xmeal.MealPack
	err := s.run(ctx, opRead, CollectionMealPacks, "customer_packs", filter, func(ctx context.Context) error {
		return findAll(ctx, s.packs, filter, &packs,
			options.Find().SetSort(bson.D{{Key: "purchased_at", Value: 1}, {Key: "_id", Value: 1}}))
	})
	if err != nil {
		return nil, err
	}
	return packs, nil
}

// CommitOrder 在事务中逐个条件扣减餐包并写入订单。
func (s *Store) CommitOrder(ctx context.Context, order xmeal.Order) error {
	filter := bson.M{"_id": order.ID}
	return s.run(ctx, opWrite, CollectionOrders, "commit_order", filter, func(ctx context.Context) error {
		return s.withTransaction(ctx, func(ctx context.Context) error {
			for _, d := range order.Deductions {
				res, err := s.packs.UpdateOne(ctx,
					bson.M{
						"_id":             d.PackID,
						"customer_id":     order.CustomerID,
						"remaining_meals": bson.M{"$gte": d.Meals},
					},
					bson.M{"$inc": bson.M{"remaining_meals": -d.Meals}},
				)
				if err != nil {
					return fmt.Errorf("deduct pack %s: %w", d.PackID, err)
				}
				if res.MatchedCount == 0 {
					return fmt.Errorf("%w: pack %s", xmeal.ErrBalanceConflict, d.PackID)
				}
			}
			if _, err := s.orders.InsertOne(ctx, order); err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return fmt.Errorf("duplicate order id %q: %w", order.ID, err)
				}
				return fmt.Errorf("insert order: %w", err)
			}
			return nil
		})
	})
}

func (s *Store) Order(ctx context.Context, id string) (xmeal.Order, error) {
	var o xmeal.Order
	filter := bson.M{"_id": id}
	err := s.run(ctx, opRead, CollectionOrders, "order", filter, func(ctx context.Context) error {
		err := s.orders.FindOne(ctx, filter).Decode(&o)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("%w: %s", xmeal.ErrOrderNotFound, id)
		}
		return err
	})
	if err != nil {
		return xmeal.Order{}, err
	}
	return o, nil
}

// UpdateOrderStatus 在事务中以 from 为条件更新状态并退回餐数。
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from, to xmeal.OrderStatus,
	restore []xmeal.Deduction, at time.Time) error {
	filter := bson.M{"_id": id, "status": from}
	return s.run(ctx, opWrite, CollectionOrders, "update_order_status", filter, func(ctx context.Context) error {
		return s.withTransaction(ctx, func(ctx context.Context) error {
			res, err := s.orders.UpdateOne(ctx, filter,
				bson.M{"$set": bson.M{"status": to, "updated_at": at}})
			if err != nil {
				return fmt.Errorf("update order: %w", err)
			}
			if res.MatchedCount == 0 {
				n, err := s.orders.CountDocuments(ctx, bson.M{"_id": id})
				if err != nil {
					return fmt.Errorf("count order: %w", err)
				}
				if n == 0 {
					return fmt.Errorf("%w: %s", xmeal.ErrOrderNotFound, id)
				}
				return fmt.Errorf("%w: order %s is no longer %s", xmeal.ErrInvalidTransition, id, from)
			}
			for _, d := range restore {
				if _, err := s.packs.UpdateOne(ctx,
					bson.M{"_id": d.PackID},
					bson.M{"$inc": bson.M{"remaining_meals": d.Meals}},
				); err != nil {
					return fmt.Errorf("restore pack %s: %w", d.PackID, err)
				}
			}
			return nil
		})
	})
}

// ===== 写入菜单与餐包 =====

// UpsertMenuItem 新增或覆盖菜品
func (s *Store) UpsertMenuItem(ctx context.Context, item xmeal.MenuItem) error {
	filter := bson.M{"_id": item.ID}
	return s.run(ctx, opWrite, CollectionMenuItems, "upsert_menu_item", filter, func(ctx context.Context) error {
		_, err := s.menu.ReplaceOne(ctx, filter, item, options.Replace().SetUpsert(true))
		return err
	})
}

// UpsertPack 新增或覆盖餐包
func (s *Store) UpsertPack(ctx context.Context, p xmeal.MealPack) error {
	filter := bson.M{"_id": p.ID}
	return s.run(ctx, opWrite, CollectionMealPacks, "upsert_pack", filter, func(ctx context.Context) error {
		_, err := s.packs.ReplaceOne(ctx, filter, p, options.Replace().SetUpsert(true))
		return err
	})
}

// ===== 内部 =====

func (s *Store) withTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(context.WithoutCancel(ctx))

	_, err = sess.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

func findAll(ctx context.Context, coll *mongo.Collection, filter, out any,
	opts ...options.Lister[options.FindOptions]) error {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}
