package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"agromarket/internal/core/cache"
	"agromarket/internal/core/logger"
	"agromarket/internal/features/analytics/domain"
	"agromarket/internal/features/analytics/ports"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CachedReader decorates a Reader with a short-lived cache over the
// system-wide dashboard reads. Per-supplier reads pass straight through:
// they are parameterized per caller and rarely repeated within the TTL.
type CachedReader struct {
	next  ports.Reader
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedReader creates a new CachedReader.
func NewCachedReader(next ports.Reader, c cache.Cache, ttl time.Duration) *CachedReader {
	return &CachedReader{
		next:  next,
		cache: c,
		ttl:   ttl,
	}
}

// through serves the value for key from the cache, falling back to load on
// miss. Cache failures degrade to the loader, never to an error.
func through[T any](ctx context.Context, r *CachedReader, key string, load func() (T, error)) (T, error) {
	var zero T

	raw, err := r.cache.Get(ctx, key)
	if err == nil {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		logger.Get().Warn("Discarding undecodable cache entry", zap.String("key", key))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logger.Get().Warn("Analytics cache read failed", zap.String("key", key), zap.Error(err))
	}

	value, err := load()
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(value); err == nil {
		if err := r.cache.Set(ctx, key, raw, r.ttl); err != nil {
			logger.Get().Warn("Analytics cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}

func (r *CachedReader) SupplierRevenue(ctx context.Context, supplierID primitive.ObjectID, dr domain.DateRange) (*domain.SupplierRevenue, error) {
	return r.next.SupplierRevenue(ctx, supplierID, dr)
}

func (r *CachedReader) DailyRevenue(ctx context.Context, supplierID primitive.ObjectID, dr domain.DateRange) ([]domain.RevenuePoint, error) {
	return r.next.DailyRevenue(ctx, supplierID, dr)
}

func (r *CachedReader) TopProducts(ctx context.Context, supplierID primitive.ObjectID, dr domain.DateRange, limit int) ([]domain.ProductSales, error) {
	return r.next.TopProducts(ctx, supplierID, dr, limit)
}

func (r *CachedReader) SupplierOrderStatusSummary(ctx context.Context, supplierID primitive.ObjectID, dr domain.DateRange) ([]domain.StatusCount, error) {
	return r.next.SupplierOrderStatusSummary(ctx, supplierID, dr)
}

func (r *CachedReader) RevenueByPeriod(ctx context.Context, unit domain.PeriodUnit) ([]domain.RevenuePoint, error) {
	key := fmt.Sprintf("analytics:revenue-by-period:%s", unit)
	return through(ctx, r, key, func() ([]domain.RevenuePoint, error) {
		return r.next.RevenueByPeriod(ctx, unit)
	})
}

func (r *CachedReader) RevenueBySupplier(ctx context.Context) ([]domain.SupplierRevenueRow, error) {
	return through(ctx, r, "analytics:revenue-by-supplier", func() ([]domain.SupplierRevenueRow, error) {
		return r.next.RevenueBySupplier(ctx)
	})
}

func (r *CachedReader) OrderCountSummary(ctx context.Context) (*domain.OrderCounts, error) {
	return through(ctx, r, "analytics:order-count-summary", func() (*domain.OrderCounts, error) {
		return r.next.OrderCountSummary(ctx)
	})
}

func (r *CachedReader) ApprovedProductCount(ctx context.Context) (int64, error) {
	return through(ctx, r, "analytics:approved-product-count", func() (int64, error) {
		return r.next.ApprovedProductCount(ctx)
	})
}

func (r *CachedReader) StockByCategory(ctx context.Context) ([]domain.CategoryStock, error) {
	return through(ctx, r, "analytics:stock-by-category", func() ([]domain.CategoryStock, error) {
		return r.next.StockByCategory(ctx)
	})
}

func (r *CachedReader) OrderStatusSummary(ctx context.Context, dr domain.DateRange) ([]domain.StatusCount, error) {
	// Date-filtered admin reads are not cached: the key space would grow
	// with every distinct range.
	if !dr.IsZero() {
		return r.next.OrderStatusSummary(ctx, dr)
	}
	return through(ctx, r, "analytics:order-status-summary", func() ([]domain.StatusCount, error) {
		return r.next.OrderStatusSummary(ctx, dr)
	})
}

func (r *CachedReader) TopProductsSystemWide(ctx context.Context, dr domain.DateRange, limit int) ([]domain.ProductSales, error) {
	if !dr.IsZero() {
		return r.next.TopProductsSystemWide(ctx, dr, limit)
	}
	key := fmt.Sprintf("analytics:top-products:%d", limit)
	return through(ctx, r, key, func() ([]domain.ProductSales, error) {
		return r.next.TopProductsSystemWide(ctx, dr, limit)
	})
}

func (r *CachedReader) BestSelling(ctx context.Context, limit int) ([]domain.BestSeller, error) {
	key := fmt.Sprintf("analytics:best-selling:%d", limit)
	return through(ctx, r, key, func() ([]domain.BestSeller, error) {
		return r.next.BestSelling(ctx, limit)
	})
}
