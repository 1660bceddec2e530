package xmongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// EnsureIndexes 创建查询所需的索引，可重复调用。
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := []struct {
		coll   *mongo.Collection
		name   string
		models []mongo.IndexModel
	}{
		{s.orders, CollectionOrders, []mongo.IndexModel{
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
		{s.packs, CollectionMealPacks, []mongo.IndexModel{
			{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "purchased_at", Value: 1}}},
		}},
		{s.menu, CollectionMenuItems, []mongo.IndexModel{
			{Keys: bson.D{{Key: "category", Value: 1}}},
		}},
	}
	for _, spec := range specs {
		err := s.run(ctx, opWrite, spec.name, "ensure_indexes", nil, func(ctx context.Context) error {
			_, err := spec.coll.Indexes().CreateMany(ctx, spec.models)
			return err
		})
		if err != nil {
			return fmt.Errorf("xmongo ensure indexes on %s: %w", spec.name, err)
		}
	}
	return nil
}
