package adapters

import (
	"context"
	"fmt"

	"agromarket/internal/features/analytics/domain"
	ordersdomain "agromarket/internal/features/orders/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoReader implements ports.Reader with aggregation pipelines over the
// orders and products collections.
type MongoReader struct {
	orders   *mongo.Collection
	products *mongo.Collection
}

// NewMongoReader creates a new MongoReader.
func NewMongoReader(orders, products *mongo.Collection) *MongoReader {
	return &MongoReader{
		orders:   orders,
		products: products,
	}
}

// withDateRange adds the createdAt bounds to a match document when the
// range is present.
func withDateRange(match bson.M, r domain.DateRange) bson.M {
	if !r.IsZero() {
		match["createdAt"] = bson.M{"$gte": *r.From, "$lte": *r.To}
	}
	return match
}

func lineRevenue() bson.M {
	return bson.M{"$sum": bson.M{"$multiply": bson.A{"$items.quantity", "$items.price"}}}
}

func (m *MongoReader) aggregate(ctx context.Context, col *mongo.Collection, pipeline mongo.Pipeline, out any) error {
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregation failed: %w", err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("failed to decode aggregation result: %w", err)
	}
	return nil
}

// SupplierRevenue sums the supplier's completed revenue, counting each order
// once even when several of its items belong to the supplier.
func (m *MongoReader) SupplierRevenue(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange) (*domain.SupplierRevenue, error) {
	match := withDateRange(bson.M{
		"items.supplierId": supplierID,
		"shippingStatus":   ordersdomain.ShippingCompleted,
	}, r)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":               nil,
			"totalRevenue":      lineRevenue(),
			"totalOrders":       bson.M{"$addToSet": "$_id"},
			"totalProductsSold": bson.M{"$sum": "$items.quantity"},
		}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":               0,
			"totalRevenue":      1,
			"totalOrdersCount":  bson.M{"$size": "$totalOrders"},
			"totalProductsSold": 1,
		}}},
	}

	var results []domain.SupplierRevenue
	if err := m.aggregate(ctx, m.orders, pipeline, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &domain.SupplierRevenue{}, nil
	}
	return &results[0], nil
}

// DailyRevenue buckets the supplier's completed revenue by calendar day.
func (m *MongoReader) DailyRevenue(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange) ([]domain.RevenuePoint, error) {
	match := withDateRange(bson.M{
		"items.supplierId": supplierID,
		"shippingStatus":   ordersdomain.ShippingCompleted,
	}, r)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$createdAt"}},
			"revenue": lineRevenue(),
		}}},
		bson.D{{Key: "$project", Value: bson.M{"date": "$_id", "revenue": 1, "_id": 0}}},
		bson.D{{Key: "$sort", Value: bson.M{"date": 1}}},
	}

	points := []domain.RevenuePoint{}
	if err := m.aggregate(ctx, m.orders, pipeline, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// TopProducts ranks the supplier's products by units sold in completed
// orders.
func (m *MongoReader) TopProducts(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange, limit int) ([]domain.ProductSales, error) {
	match := withDateRange(bson.M{
		"items.supplierId": supplierID,
		"shippingStatus":   ordersdomain.ShippingCompleted,
	}, r)
	return m.rankProducts(ctx, match, limit)
}

// TopProductsSystemWide ranks products by units sold across all suppliers.
func (m *MongoReader) TopProductsSystemWide(ctx context.Context, r domain.DateRange, limit int) ([]domain.ProductSales, error) {
	match := withDateRange(bson.M{
		"shippingStatus": ordersdomain.ShippingCompleted,
	}, r)
	return m.rankProducts(ctx, match, limit)
}

func (m *MongoReader) rankProducts(ctx context.Context, match bson.M, limit int) ([]domain.ProductSales, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":  "$items.productId",
			"sold": bson.M{"$sum": "$items.quantity"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$project", Value: bson.M{"name": "$product.name", "sold": 1, "_id": 0}}},
		bson.D{{Key: "$sort", Value: bson.M{"sold": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	rows := []domain.ProductSales{}
	if err := m.aggregate(ctx, m.orders, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SupplierOrderStatusSummary counts the supplier's order items per shipping
// status. Every status is counted here, not only completed.
func (m *MongoReader) SupplierOrderStatusSummary(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange) ([]domain.StatusCount, error) {
	match := withDateRange(bson.M{"items.supplierId": supplierID}, r)

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$shippingStatus",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"status": "$_id", "count": 1, "_id": 0}}},
	}

	rows := []domain.StatusCount{}
	if err := m.aggregate(ctx, m.orders, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// RevenueByPeriod buckets system-wide completed revenue at day, month or
// year granularity.
func (m *MongoReader) RevenueByPeriod(ctx context.Context, unit domain.PeriodUnit) ([]domain.RevenuePoint, error) {
	format, err := unit.DateFormat()
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"shippingStatus": ordersdomain.ShippingCompleted}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":     bson.M{"$dateToString": bson.M{"format": format, "date": "$createdAt"}},
			"revenue": lineRevenue(),
		}}},
		bson.D{{Key: "$project", Value: bson.M{"date": "$_id", "revenue": 1, "_id": 0}}},
		bson.D{{Key: "$sort", Value: bson.M{"date": 1}}},
	}

	points := []domain.RevenuePoint{}
	if err := m.aggregate(ctx, m.orders, pipeline, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// RevenueBySupplier breaks all-time completed revenue down per supplier.
func (m *MongoReader) RevenueBySupplier(ctx context.Context) ([]domain.SupplierRevenueRow, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"shippingStatus": ordersdomain.ShippingCompleted}}},
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":          "$items.supplierId",
			"revenue":      lineRevenue(),
			"productsSold": bson.M{"$sum": "$items.quantity"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "supplier",
		}}},
		bson.D{{Key: "$unwind", Value: "$supplier"}},
		bson.D{{Key: "$project", Value: bson.M{
			"supplierId":   "$_id",
			"revenue":      1,
			"productsSold": 1,
			"name":         "$supplier.name",
			"email":        "$supplier.email",
		}}},
	}

	rows := []domain.SupplierRevenueRow{}
	if err := m.aggregate(ctx, m.orders, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// OrderCountSummary counts all orders against completed ones.
func (m *MongoReader) OrderCountSummary(ctx context.Context) (*domain.OrderCounts, error) {
	total, err := m.orders.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	completed, err := m.orders.CountDocuments(ctx, bson.M{"shippingStatus": ordersdomain.ShippingCompleted})
	if err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}
	return &domain.OrderCounts{
		TotalOrders:     total,
		CompletedOrders: completed,
	}, nil
}

// ApprovedProductCount counts active products that passed moderation.
func (m *MongoReader) ApprovedProductCount(ctx context.Context) (int64, error) {
	count, err := m.products.CountDocuments(ctx, bson.M{"isActive": true, "status": "approved"})
	if err != nil {
		return 0, fmt.Errorf("failed to count approved products: %w", err)
	}
	return count, nil
}

// StockByCategory sums remaining stock per category.
func (m *MongoReader) StockByCategory(ctx context.Context) ([]domain.CategoryStock, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.M{
			"_id":        "$categoryId",
			"totalStock": bson.M{"$sum": "$stock"},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "categories",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "category",
		}}},
		bson.D{{Key: "$unwind", Value: "$category"}},
		bson.D{{Key: "$project", Value: bson.M{
			"categoryName": "$category.name",
			"totalStock":   1,
			"_id":          0,
		}}},
	}

	rows := []domain.CategoryStock{}
	if err := m.aggregate(ctx, m.products, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// OrderStatusSummary counts whole orders per shipping status.
func (m *MongoReader) OrderStatusSummary(ctx context.Context, r domain.DateRange) ([]domain.StatusCount, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: withDateRange(bson.M{}, r)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$shippingStatus",
			"count": bson.M{"$sum": 1},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"status": "$_id", "count": 1, "_id": 0}}},
	}

	rows := []domain.StatusCount{}
	if err := m.aggregate(ctx, m.orders, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// BestSelling ranks products by units sold in completed orders. Moderation
// is applied after the lookup, so a product unapproved today drops out of
// the ranking even for past sales.
func (m *MongoReader) BestSelling(ctx context.Context, limit int) ([]domain.BestSeller, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$unwind", Value: "$items"}},
		bson.D{{Key: "$match", Value: bson.M{"shippingStatus": ordersdomain.ShippingCompleted}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":       "$items.productId",
			"totalSold": bson.M{"$sum": "$items.quantity"},
		}}},
		bson.D{{Key: "$sort", Value: bson.M{"totalSold": -1}}},
		bson.D{{Key: "$limit", Value: limit}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "products",
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "product",
		}}},
		bson.D{{Key: "$unwind", Value: "$product"}},
		bson.D{{Key: "$match", Value: bson.M{"product.status": "approved"}}},
		bson.D{{Key: "$project", Value: bson.M{
			"_id":       0,
			"productId": "$_id",
			"name":      "$product.name",
			"images":    "$product.images",
			"totalSold": 1,
		}}},
	}

	rows := []domain.BestSeller{}
	if err := m.aggregate(ctx, m.orders, pipeline, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
