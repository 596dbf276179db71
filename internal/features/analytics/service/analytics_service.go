package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agromarket/internal/features/analytics/domain"
	"agromarket/internal/features/analytics/ports"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned when a supplier id is not a valid object id.
var ErrInvalidID = errors.New("invalid supplier id")

const (
	defaultSupplierTopLimit = 5
	defaultSystemTopLimit   = 10
	defaultBestSellingLimit = 5
)

// dateOnly is the ISO calendar date layout accepted on from/to query
// parameters, alongside full RFC3339 timestamps.
const dateOnly = "2006-01-02"

// AnalyticsService validates dashboard query parameters and delegates the
// aggregation work to the reader port.
type AnalyticsService struct {
	reader ports.Reader
}

// NewAnalyticsService creates a new AnalyticsService.
func NewAnalyticsService(reader ports.Reader) *AnalyticsService {
	return &AnalyticsService{reader: reader}
}

// ParseDateRange builds a DateRange from raw from/to query values. Both
// must be given or neither. Values are accepted as ISO dates or RFC3339
// timestamps.
func ParseDateRange(from, to string) (domain.DateRange, error) {
	if from == "" && to == "" {
		return domain.DateRange{}, nil
	}
	if from == "" || to == "" {
		return domain.DateRange{}, domain.ErrInvalidDateRange
	}

	fromTime, err := parseDate(from)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %s", domain.ErrInvalidDateRange, from)
	}
	toTime, err := parseDate(to)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("%w: %s", domain.ErrInvalidDateRange, to)
	}

	r := domain.DateRange{From: &fromTime, To: &toTime}
	if err := r.Validate(); err != nil {
		return domain.DateRange{}, err
	}
	return r, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateOnly, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseSupplierID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}
	return oid, nil
}

// RevenueForSupplier returns the supplier's completed revenue summary.
func (s *AnalyticsService) RevenueForSupplier(ctx context.Context, supplierID, from, to string) (*domain.SupplierRevenue, error) {
	oid, err := parseSupplierID(supplierID)
	if err != nil {
		return nil, err
	}
	r, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.reader.SupplierRevenue(ctx, oid, r)
}

// DailyRevenue returns the supplier's completed revenue bucketed per day.
// An empty matching set yields an empty sequence, not an error.
func (s *AnalyticsService) DailyRevenue(ctx context.Context, supplierID, from, to string) ([]domain.RevenuePoint, error) {
	oid, err := parseSupplierID(supplierID)
	if err != nil {
		return nil, err
	}
	r, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.reader.DailyRevenue(ctx, oid, r)
}

// TopProductsForSupplier ranks the supplier's products by units sold.
func (s *AnalyticsService) TopProductsForSupplier(ctx context.Context, supplierID, from, to string, limit int) ([]domain.ProductSales, error) {
	oid, err := parseSupplierID(supplierID)
	if err != nil {
		return nil, err
	}
	r, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSupplierTopLimit
	}
	return s.reader.TopProducts(ctx, oid, r, limit)
}

// OrderStatusSummaryForSupplier breaks the supplier's order items down by
// shipping status.
func (s *AnalyticsService) OrderStatusSummaryForSupplier(ctx context.Context, supplierID, from, to string) ([]domain.StatusCount, error) {
	oid, err := parseSupplierID(supplierID)
	if err != nil {
		return nil, err
	}
	r, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.reader.SupplierOrderStatusSummary(ctx, oid, r)
}

// RevenueByPeriod buckets system revenue by day, month or year.
func (s *AnalyticsService) RevenueByPeriod(ctx context.Context, unit string) ([]domain.RevenuePoint, error) {
	u := domain.PeriodUnit(unit)
	if unit == "" {
		u = domain.PeriodDay
	}
	if _, err := u.DateFormat(); err != nil {
		return nil, err
	}
	return s.reader.RevenueByPeriod(ctx, u)
}

// RevenueBySupplier breaks all-time completed revenue down per supplier.
func (s *AnalyticsService) RevenueBySupplier(ctx context.Context) ([]domain.SupplierRevenueRow, error) {
	return s.reader.RevenueBySupplier(ctx)
}

// OrderCountSummary returns total vs completed order counts.
func (s *AnalyticsService) OrderCountSummary(ctx context.Context) (*domain.OrderCounts, error) {
	return s.reader.OrderCountSummary(ctx)
}

// ApprovedProductCount counts active, approved products.
func (s *AnalyticsService) ApprovedProductCount(ctx context.Context) (int64, error) {
	return s.reader.ApprovedProductCount(ctx)
}

// StockByCategory sums remaining stock per category.
func (s *AnalyticsService) StockByCategory(ctx context.Context) ([]domain.CategoryStock, error) {
	return s.reader.StockByCategory(ctx)
}

// OrderStatusSummary counts whole orders by shipping status.
func (s *AnalyticsService) OrderStatusSummary(ctx context.Context, from, to string) ([]domain.StatusCount, error) {
	r, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.reader.OrderStatusSummary(ctx, r)
}

// TopProducts ranks products by units sold across all suppliers.
func (s *AnalyticsService) TopProducts(ctx context.Context, from, to string, limit int) ([]domain.ProductSales, error) {
	r, err := ParseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSystemTopLimit
	}
	return s.reader.TopProductsSystemWide(ctx, r, limit)
}

// BestSelling ranks currently approved products by units sold in completed
// orders.
func (s *AnalyticsService) BestSelling(ctx context.Context, limit int) ([]domain.BestSeller, error) {
	if limit <= 0 {
		limit = defaultBestSellingLimit
	}
	return s.reader.BestSelling(ctx, limit)
}
