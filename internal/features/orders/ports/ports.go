package ports

import (
	"context"
	"time"

	"agromarket/internal/features/orders/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderRepository defines the secondary port for order persistence.
type OrderRepository interface {
	// Insert persists a new order, assigning its generated id in place.
	Insert(ctx context.Context, order *domain.Order) error
	// FindByID loads the raw order document.
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error)
	// FindDetailByID loads the order joined with product, category, supplier
	// and customer display data.
	FindDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.OrderDetail, error)
	// FindByCustomer lists a customer's orders, joined.
	FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]domain.OrderDetail, error)
	// FindBySupplier lists orders containing the supplier's items, joined,
	// with items filtered to that supplier.
	FindBySupplier(ctx context.Context, supplierID primitive.ObjectID) ([]domain.OrderDetail, error)
	// FindAll lists every order, joined. Admin only.
	FindAll(ctx context.Context) ([]domain.OrderDetail, error)
	// Update writes back a mutated order document.
	Update(ctx context.Context, order *domain.Order) error
	// UpdateShippingAddress merges only the shipping address field.
	UpdateShippingAddress(ctx context.Context, id primitive.ObjectID, address string) error
	// MarkItemReviewed flips the review flag of one line item in place.
	MarkItemReviewed(ctx context.Context, id, productID primitive.ObjectID) error
	// FindExpiredUnpaid lists unpaid orders whose payment deadline is behind now.
	FindExpiredUnpaid(ctx context.Context, now time.Time) ([]domain.Order, error)
}

// StockReserver defines the secondary port guarding product stock.
// A successful reservation atomically decrements every requested product;
// a failed reservation leaves all stock levels untouched.
type StockReserver interface {
	Reserve(ctx context.Context, reservations []domain.Reservation) error
}

// EventPublisher defines the secondary port for order lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
}
