// Package domain holds the read models produced by the analytics
// aggregations. All types here are query results, never persisted.
package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidDateRange is returned when only one bound of the range is
	// given, or when from is after to.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrInvalidPeriodUnit is returned for bucketing units other than
	// day, month or year.
	ErrInvalidPeriodUnit = errors.New("invalid period unit")
)

// DateRange is an optional closed [From, To] filter on order creation time.
// Both bounds are set or neither is.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// IsZero reports whether the range is absent, meaning all time.
func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Validate checks the both-or-neither convention and bound ordering.
func (r DateRange) Validate() error {
	if (r.From == nil) != (r.To == nil) {
		return ErrInvalidDateRange
	}
	if r.From != nil && r.From.After(*r.To) {
		return ErrInvalidDateRange
	}
	return nil
}

// PeriodUnit selects the bucketing granularity for system revenue reads.
type PeriodUnit string

const (
	PeriodDay   PeriodUnit = "day"
	PeriodMonth PeriodUnit = "month"
	PeriodYear  PeriodUnit = "year"
)

// DateFormat returns the aggregation date format string for the unit.
func (u PeriodUnit) DateFormat() (string, error) {
	switch u {
	case PeriodDay:
		return "%Y-%m-%d", nil
	case PeriodMonth:
		return "%Y-%m", nil
	case PeriodYear:
		return "%Y", nil
	default:
		return "", ErrInvalidPeriodUnit
	}
}

// SupplierRevenue is the revenue summary for one supplier: total revenue,
// distinct completed orders, and units sold.
type SupplierRevenue struct {
	TotalRevenue      float64 `bson:"totalRevenue" json:"totalRevenue"`
	TotalOrdersCount  int     `bson:"totalOrdersCount" json:"totalOrdersCount"`
	TotalProductsSold int     `bson:"totalProductsSold" json:"totalProductsSold"`
}

// RevenuePoint is one bucket of a revenue time series. Date carries the
// bucket key in the granularity requested, e.g. "2026-08-29", "2026-08"
// or "2026".
type RevenuePoint struct {
	Date    string  `bson:"date" json:"date"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// ProductSales is one row of a top-products ranking.
type ProductSales struct {
	Name string `bson:"name" json:"name"`
	Sold int    `bson:"sold" json:"sold"`
}

// StatusCount is one row of a shipping status breakdown.
type StatusCount struct {
	Status string `bson:"status" json:"status"`
	Count  int    `bson:"count" json:"count"`
}

// SupplierRevenueRow is one supplier's slice of system revenue, joined with
// the supplier's display identity.
type SupplierRevenueRow struct {
	SupplierID   primitive.ObjectID `bson:"supplierId" json:"supplierId"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Revenue      float64            `bson:"revenue" json:"revenue"`
	ProductsSold int                `bson:"productsSold" json:"productsSold"`
}

// OrderCounts compares total orders against completed ones.
type OrderCounts struct {
	TotalOrders     int64 `json:"totalOrders"`
	CompletedOrders int64 `json:"completedOrders"`
}

// CategoryStock is the remaining stock summed over one category.
type CategoryStock struct {
	CategoryName string `bson:"categoryName" json:"categoryName"`
	TotalStock   int    `bson:"totalStock" json:"totalStock"`
}

// BestSeller is one row of the storefront best-selling ranking. Only
// products whose current moderation status is approved appear, so a past
// top seller drops out if it is later unapproved.
type BestSeller struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Images    []string           `bson:"images" json:"images"`
	TotalSold int                `bson:"totalSold" json:"totalSold"`
}
