package adapters

import (
	"context"
	"errors"
	"fmt"

	"agromarket/internal/core/logger"
	"agromarket/internal/features/orders/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MongoStockReserver implements ports.StockReserver on the products
// collection. Each item is decremented with a single conditional update
// (stock must cover the quantity), so two concurrent checkouts can never
// drive stock negative. If a later item fails, the earlier decrements of the
// same reservation are compensated before returning.
type MongoStockReserver struct {
	products *mongo.Collection
}

// NewMongoStockReserver creates a new MongoStockReserver.
func NewMongoStockReserver(products *mongo.Collection) *MongoStockReserver {
	return &MongoStockReserver{products: products}
}

// Reserve atomically decrements stock for every reservation, or none.
func (r *MongoStockReserver) Reserve(ctx context.Context, reservations []domain.Reservation) error {
	reserved := make([]domain.Reservation, 0, len(reservations))

	for _, res := range reservations {
		filter := bson.M{
			"_id":   res.ProductID,
			"stock": bson.M{"$gte": res.Quantity},
		}
		update := bson.M{"$inc": bson.M{"stock": -res.Quantity}}

		err := r.products.FindOneAndUpdate(ctx, filter, update).Err()
		if err == nil {
			reserved = append(reserved, res)
			continue
		}

		if !errors.Is(err, mongo.ErrNoDocuments) {
			r.compensate(ctx, reserved)
			return fmt.Errorf("failed to reserve stock for %s: %w", res.ProductID.Hex(), err)
		}

		// The conditional update matched nothing: either the product is
		// gone or its stock is too low.
		cause := domain.ErrInsufficientStock
		count, countErr := r.products.CountDocuments(ctx, bson.M{"_id": res.ProductID})
		if countErr == nil && count == 0 {
			cause = domain.ErrProductNotFound
		}

		r.compensate(ctx, reserved)
		return fmt.Errorf("%w: product %s", cause, res.ProductID.Hex())
	}

	return nil
}

// compensate returns previously decremented stock after a partial failure.
func (r *MongoStockReserver) compensate(ctx context.Context, reserved []domain.Reservation) {
	for _, res := range reserved {
		update := bson.M{"$inc": bson.M{"stock": res.Quantity}}
		if _, err := r.products.UpdateByID(ctx, res.ProductID, update); err != nil {
			logger.Get().Error("Failed to compensate stock reservation",
				zap.String("product_id", res.ProductID.Hex()),
				zap.Int("quantity", res.Quantity),
				zap.Error(err),
			)
		}
	}
}
