package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"agromarket/internal/core/logger"
	"agromarket/internal/core/metrics"
	"agromarket/internal/features/orders/domain"
	"agromarket/internal/features/orders/ports"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ErrOrderNotFound is returned when the order does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrInvalidID is returned when a supplied identifier is not a valid object id.
var ErrInvalidID = errors.New("invalid identifier")

// CreateOrderItem is a single line of a checkout request.
type CreateOrderItem struct {
	ProductID  string  `json:"productId"`
	SupplierID string  `json:"supplierId"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
}

// CreateOrderInput is a checkout request as submitted by the storefront.
// The total amount is trusted from the client and matched exactly during
// payment reconciliation.
type CreateOrderInput struct {
	CustomerID      string            `json:"customerId"`
	Items           []CreateOrderItem `json:"items"`
	TotalAmount     float64           `json:"totalAmount"`
	ShippingAddress string            `json:"shippingAddress"`
	PaymentMethod   string            `json:"paymentMethod"`
}

// OrderService owns order creation and every legal state transition.
type OrderService struct {
	repo      ports.OrderRepository
	stock     ports.StockReserver
	events    ports.EventPublisher
	metrics   *metrics.Metrics
	unpaidTTL time.Duration
}

// NewOrderService creates a new OrderService.
func NewOrderService(repo ports.OrderRepository, stock ports.StockReserver, events ports.EventPublisher, m *metrics.Metrics, unpaidTTL time.Duration) *OrderService {
	return &OrderService{
		repo:      repo,
		stock:     stock,
		events:    events,
		metrics:   m,
		unpaidTTL: unpaidTTL,
	}
}

// Create reserves stock for every item and persists a new order in its
// initial state (UNPAID, AWAITING_CONFIRMATION).
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	customerID, err := primitive.ObjectIDFromHex(input.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("%w: customer id %q", ErrInvalidID, input.CustomerID)
	}

	items := make([]domain.OrderItem, 0, len(input.Items))
	reservations := make([]domain.Reservation, 0, len(input.Items))
	for _, in := range input.Items {
		productID, err := primitive.ObjectIDFromHex(in.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: product id %q", ErrInvalidID, in.ProductID)
		}
		supplierID, err := primitive.ObjectIDFromHex(in.SupplierID)
		if err != nil {
			return nil, fmt.Errorf("%w: supplier id %q", ErrInvalidID, in.SupplierID)
		}
		items = append(items, domain.OrderItem{
			ProductID:  productID,
			SupplierID: supplierID,
			Quantity:   in.Quantity,
			Price:      in.Price,
		})
		reservations = append(reservations, domain.Reservation{
			ProductID: productID,
			Quantity:  in.Quantity,
		})
	}

	order, err := domain.NewOrder(customerID, items, input.TotalAmount, input.ShippingAddress, input.PaymentMethod, s.unpaidTTL)
	if err != nil {
		return nil, err
	}

	if err := s.stock.Reserve(ctx, reservations); err != nil {
		return nil, fmt.Errorf("stock reservation failed: %w", err)
	}

	if err := s.repo.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
	}
	s.publish(ctx, domain.OrderCreated, order)

	return order, nil
}

// GetByID returns the joined order detail.
func (s *OrderService) GetByID(ctx context.Context, id string) (*domain.OrderDetail, error) {
	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: order id %q", ErrInvalidID, id)
	}

	detail, err := s.repo.FindDetailByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	if detail == nil {
		return nil, ErrOrderNotFound
	}
	return detail, nil
}

// ListByCustomer returns a customer's orders, joined.
func (s *OrderService) ListByCustomer(ctx context.Context, customerID string) ([]domain.OrderDetail, error) {
	id, err := primitive.ObjectIDFromHex(customerID)
	if err != nil {
		return nil, fmt.Errorf("%w: customer id %q", ErrInvalidID, customerID)
	}
	details, err := s.repo.FindByCustomer(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer orders: %w", err)
	}
	return details, nil
}

// ListBySupplier returns the orders containing the supplier's items, with
// items filtered to that supplier.
func (s *OrderService) ListBySupplier(ctx context.Context, supplierID string) ([]domain.OrderDetail, error) {
	id, err := primitive.ObjectIDFromHex(supplierID)
	if err != nil {
		return nil, fmt.Errorf("%w: supplier id %q", ErrInvalidID, supplierID)
	}
	details, err := s.repo.FindBySupplier(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list supplier orders: %w", err)
	}
	return details, nil
}

// ListAll returns every order, joined. Admin only.
func (s *OrderService) ListAll(ctx context.Context) ([]domain.OrderDetail, error) {
	details, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return details, nil
}

// UpdatePaymentStatus applies a caller-requested payment status change,
// restricted to UNPAID and PAID.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	return s.transition(ctx, id, func(order *domain.Order) error {
		return order.SetPaymentStatus(status)
	})
}

// UpdateShippingStatus moves the order along the fulfillment pipeline.
func (s *OrderService) UpdateShippingStatus(ctx context.Context, id string, status domain.ShippingStatus) (*domain.Order, error) {
	return s.transition(ctx, id, func(order *domain.Order) error {
		return order.SetShippingStatus(status)
	})
}

// MarkPaid records a reconciled payment. Safe to call repeatedly.
func (s *OrderService) MarkPaid(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.transition(ctx, id, func(order *domain.Order) error {
		return order.MarkPaid()
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.OrderPaid, order)
	return order, nil
}

// Cancel terminates an unpaid order and returns the joined detail.
func (s *OrderService) Cancel(ctx context.Context, id string) (*domain.OrderDetail, error) {
	order, err := s.transition(ctx, id, func(order *domain.Order) error {
		return order.Cancel()
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCancelled.WithLabelValues("client").Inc()
	}
	s.publish(ctx, domain.OrderCancelled, order)

	detail, err := s.repo.FindDetailByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cancelled order: %w", err)
	}
	if detail == nil {
		return nil, ErrOrderNotFound
	}
	return detail, nil
}

// CorrectShippingAddress merges a corrected shipping address. This is the
// only field open to partial updates; state transitions have their own
// guarded operations.
func (s *OrderService) CorrectShippingAddress(ctx context.Context, id, address string) (*domain.Order, error) {
	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: order id %q", ErrInvalidID, id)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.repo.UpdateShippingAddress(ctx, orderID, address); err != nil {
		return nil, fmt.Errorf("failed to update shipping address: %w", err)
	}
	order.ShippingAddress = address
	return order, nil
}

// MarkItemReviewed flips the review flag of one line item after a review has
// been accepted for it.
func (s *OrderService) MarkItemReviewed(ctx context.Context, orderID, productID string) error {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return fmt.Errorf("%w: order id %q", ErrInvalidID, orderID)
	}
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return fmt.Errorf("%w: product id %q", ErrInvalidID, productID)
	}

	order, err := s.repo.FindByID(ctx, oid)
	if err != nil {
		return fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}

	if err := order.MarkItemReviewed(pid); err != nil {
		return err
	}
	// Guards passed on the loaded copy; persist only the one flag so a
	// concurrent writer is not clobbered by a full document replace.
	if err := s.repo.MarkItemReviewed(ctx, oid, pid); err != nil {
		return fmt.Errorf("failed to persist review flag: %w", err)
	}
	return nil
}

// transition loads the order, applies the mutation and writes it back.
func (s *OrderService) transition(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error) {
	orderID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: order id %q", ErrInvalidID, id)
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := mutate(order); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return order, nil
}

// publish emits a lifecycle event. Publish failures are logged, never
// surfaced; the order mutation has already been persisted.
func (s *OrderService) publish(ctx context.Context, eventType domain.OrderEventType, order *domain.Order) {
	if s.events == nil {
		return
	}
	event := domain.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID.Hex(),
		CustomerID:  order.CustomerID.Hex(),
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Get().Warn("Failed to publish order event",
			zap.String("type", string(eventType)),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}
