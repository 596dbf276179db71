package ports

import (
	"context"

	"agromarket/internal/features/analytics/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reader defines the secondary port for analytics aggregations. Every
// operation is a pure query against persisted orders and products.
type Reader interface {
	// SupplierRevenue sums revenue, distinct completed orders and units
	// sold for one supplier's items.
	SupplierRevenue(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange) (*domain.SupplierRevenue, error)
	// DailyRevenue buckets one supplier's completed revenue by calendar
	// day, ascending.
	DailyRevenue(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange) ([]domain.RevenuePoint, error)
	// TopProducts ranks one supplier's products by units sold, descending.
	TopProducts(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange, limit int) ([]domain.ProductSales, error)
	// SupplierOrderStatusSummary counts the supplier's order items grouped
	// by shipping status. All statuses are counted, not only completed.
	SupplierOrderStatusSummary(ctx context.Context, supplierID primitive.ObjectID, r domain.DateRange) ([]domain.StatusCount, error)

	// RevenueByPeriod buckets system-wide completed revenue by the given
	// granularity, ascending by bucket key.
	RevenueByPeriod(ctx context.Context, unit domain.PeriodUnit) ([]domain.RevenuePoint, error)
	// RevenueBySupplier breaks all-time completed revenue down per
	// supplier, joined with the supplier's name and email.
	RevenueBySupplier(ctx context.Context) ([]domain.SupplierRevenueRow, error)
	// OrderCountSummary counts all orders and completed orders.
	OrderCountSummary(ctx context.Context) (*domain.OrderCounts, error)
	// ApprovedProductCount counts active, approved products.
	ApprovedProductCount(ctx context.Context) (int64, error)
	// StockByCategory sums remaining product stock per category.
	StockByCategory(ctx context.Context) ([]domain.CategoryStock, error)
	// OrderStatusSummary counts whole orders grouped by shipping status,
	// optionally date filtered.
	OrderStatusSummary(ctx context.Context, r domain.DateRange) ([]domain.StatusCount, error)
	// TopProductsSystemWide ranks products by units sold across all
	// suppliers, descending.
	TopProductsSystemWide(ctx context.Context, r domain.DateRange, limit int) ([]domain.ProductSales, error)
	// BestSelling ranks products by units sold in completed orders,
	// keeping only currently approved products.
	BestSelling(ctx context.Context, limit int) ([]domain.BestSeller, error)
}
