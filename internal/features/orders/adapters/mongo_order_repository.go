package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agromarket/internal/features/orders/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOrderRepository implements ports.OrderRepository on the orders
// collection. Joined reads use aggregation $lookup against the products,
// categories and users collections.
type MongoOrderRepository struct {
	orders *mongo.Collection
}

// NewMongoOrderRepository creates a new MongoOrderRepository.
func NewMongoOrderRepository(orders *mongo.Collection) *MongoOrderRepository {
	return &MongoOrderRepository{orders: orders}
}

// Insert persists a new order and assigns the generated id in place.
func (r *MongoOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	res, err := r.orders.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// FindByID loads the raw order document. Returns (nil, nil) when absent.
func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var order domain.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find order: %w", err)
	}
	return &order, nil
}

// FindDetailByID loads the joined order detail. Returns (nil, nil) when absent.
func (r *MongoOrderRepository) FindDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.OrderDetail, error) {
	details, err := r.aggregateDetails(ctx, bson.M{"_id": id}, nil)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, nil
	}
	return &details[0], nil
}

// FindByCustomer lists a customer's orders, joined.
func (r *MongoOrderRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]domain.OrderDetail, error) {
	return r.aggregateDetails(ctx, bson.M{"customerId": customerID}, nil)
}

// FindBySupplier lists orders containing the supplier's items. The embedded
// supplier reference captured at order time is matched, not current product
// ownership, and returned items are filtered to that supplier.
func (r *MongoOrderRepository) FindBySupplier(ctx context.Context, supplierID primitive.ObjectID) ([]domain.OrderDetail, error) {
	return r.aggregateDetails(ctx, bson.M{"items.supplierId": supplierID}, &supplierID)
}

// FindAll lists every order, joined.
func (r *MongoOrderRepository) FindAll(ctx context.Context) ([]domain.OrderDetail, error) {
	return r.aggregateDetails(ctx, bson.M{}, nil)
}

// Update writes back the full order document.
func (r *MongoOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	res, err := r.orders.ReplaceOne(ctx, bson.M{"_id": order.ID}, order)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s not found for update", order.ID.Hex())
	}
	return nil
}

// UpdateShippingAddress merges only the corrected shipping address.
func (r *MongoOrderRepository) UpdateShippingAddress(ctx context.Context, id primitive.ObjectID, address string) error {
	update := bson.M{"$set": bson.M{
		"shippingAddress": address,
		"updatedAt":       time.Now().UTC(),
	}}
	res, err := r.orders.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update shipping address: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s not found for update", id.Hex())
	}
	return nil
}

// MarkItemReviewed sets the matched item's review flag with a positional
// update, leaving the rest of the document untouched.
func (r *MongoOrderRepository) MarkItemReviewed(ctx context.Context, id, productID primitive.ObjectID) error {
	filter := bson.M{"_id": id, "items.productId": productID}
	update := bson.M{"$set": bson.M{
		"items.$.isReviewed": true,
		"updatedAt":          time.Now().UTC(),
	}}
	res, err := r.orders.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark item reviewed: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order %s has no item for product %s", id.Hex(), productID.Hex())
	}
	return nil
}

// FindExpiredUnpaid lists unpaid orders whose recorded payment deadline is
// behind the supplied time.
func (r *MongoOrderRepository) FindExpiredUnpaid(ctx context.Context, now time.Time) ([]domain.Order, error) {
	filter := bson.M{
		"status":          domain.PaymentStatusUnpaid,
		"paymentDeadline": bson.M{"$ne": nil, "$lte": now},
	}
	cursor, err := r.orders.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired orders: %w", err)
	}
	defer cursor.Close(ctx)

	var expired []domain.Order
	if err := cursor.All(ctx, &expired); err != nil {
		return nil, fmt.Errorf("failed to decode expired orders: %w", err)
	}
	return expired, nil
}

// aggregateDetails runs the join pipeline: unwind items, look up product,
// category and supplier display data per item, regroup, then look up the
// customer. An optional supplier filter restricts the unwound items.
func (r *MongoOrderRepository) aggregateDetails(ctx context.Context, match bson.M, supplierID *primitive.ObjectID) ([]domain.OrderDetail, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$unwind", Value: "$items"}},
	}

	if supplierID != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"items.supplierId": *supplierID}}})
	}

	pipeline = append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "items.productId",
			"foreignField": "_id",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$product", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "product.categoryId",
			"foreignField": "_id",
			"as":           "category",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$category", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "items.supplierId",
			"foreignField": "_id",
			"as":           "supplier",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$supplier", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"items.productName":   "$product.name",
			"items.productImages": "$product.images",
			"items.categoryName":  "$category.name",
			"items.supplierName":  "$supplier.name",
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":             "$_id",
			"items":           bson.M{"$push": "$items"},
			"customerId":      bson.M{"$first": "$customerId"},
			"totalAmount":     bson.M{"$first": "$totalAmount"},
			"shippingAddress": bson.M{"$first": "$shippingAddress"},
			"paymentMethod":   bson.M{"$first": "$paymentMethod"},
			"status":          bson.M{"$first": "$status"},
			"shippingStatus":  bson.M{"$first": "$shippingStatus"},
			"isPaid":          bson.M{"$first": "$isPaid"},
			"createdAt":       bson.M{"$first": "$createdAt"},
			"updatedAt":       bson.M{"$first": "$updatedAt"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "customerId",
			"foreignField": "_id",
			"as":           "customer",
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{"path": "$customer", "preserveNullAndEmptyArrays": true}}},
		bson.D{{Key: "$project", Value: bson.M{
			"items":           1,
			"totalAmount":     1,
			"shippingAddress": 1,
			"paymentMethod":   1,
			"status":          1,
			"shippingStatus":  1,
			"isPaid":          1,
			"createdAt":       1,
			"updatedAt":       1,
			"customer": bson.M{
				"_id":     "$customer._id",
				"name":    "$customer.name",
				"phone":   "$customer.phone",
				"email":   "$customer.email",
				"address": "$customer.address",
			},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"createdAt": -1}}},
	)

	cursor, err := r.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}
	defer cursor.Close(ctx)

	var details []domain.OrderDetail
	if err := cursor.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("failed to decode order details: %w", err)
	}
	return details, nil
}
