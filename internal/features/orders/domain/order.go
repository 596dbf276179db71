package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentStatus represents the payment state of an order.
type PaymentStatus string

const (
	// PaymentStatusUnpaid indicates no payment has been reconciled yet.
	PaymentStatusUnpaid PaymentStatus = "UNPAID"
	// PaymentStatusPaid indicates payment has been received in full.
	PaymentStatusPaid PaymentStatus = "PAID"
	// PaymentStatusCancelled indicates the order was cancelled before payment.
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// ShippingStatus represents the fulfillment state of an order,
// independent of its payment state.
type ShippingStatus string

const (
	ShippingAwaitingConfirmation ShippingStatus = "AWAITING_CONFIRMATION"
	ShippingConfirmed            ShippingStatus = "CONFIRMED"
	ShippingInTransit            ShippingStatus = "SHIPPING"
	ShippingDeliveryFailed       ShippingStatus = "DELIVERY_FAILED"
	ShippingCompleted            ShippingStatus = "COMPLETED"
	ShippingCancelled            ShippingStatus = "CANCELLED"
)

// Recognized payment methods. Free text elsewhere; these two drive behavior.
const (
	PaymentMethodCashOnDelivery = "cash on delivery"
	PaymentMethodOnlineTransfer = "online transfer"
)

var (
	ErrEmptyOrder             = errors.New("order must contain at least one item")
	ErrInvalidAmount          = errors.New("order amount must be positive")
	ErrInvalidQuantity        = errors.New("item quantity must be positive")
	ErrInvalidPaymentStatus   = errors.New("invalid payment status")
	ErrInvalidShippingStatus  = errors.New("invalid shipping status")
	ErrOrderAlreadyPaid       = errors.New("cannot cancel a paid order")
	ErrOrderAlreadyCancelled  = errors.New("order has already been cancelled")
	ErrItemNotInOrder         = errors.New("product is not part of this order")
	ErrItemAlreadyReviewed    = errors.New("item has already been reviewed")
	ErrOrderNotReviewable     = errors.New("order must be paid and completed before reviewing")

	// Stock reservation failures, returned by the StockReserver port.
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// OrderItem is a line item embedded in an order. The supplier reference and
// unit price are frozen at order time; later product changes do not affect
// existing orders.
type OrderItem struct {
	ProductID  primitive.ObjectID `bson:"productId" json:"productId"`
	SupplierID primitive.ObjectID `bson:"supplierId" json:"supplierId"`
	Quantity   int                `bson:"quantity" json:"quantity"`
	Price      float64            `bson:"price" json:"price"`
	IsReviewed bool               `bson:"isReviewed" json:"isReviewed"`
}

// Order is the persisted order document, the root aggregate of the order
// lifecycle. All mutations go through its methods so that payment and
// fulfillment state can never reach an illegal combination.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerID      primitive.ObjectID `bson:"customerId" json:"customerId"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress string             `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	Status          PaymentStatus      `bson:"status" json:"status"`
	ShippingStatus  ShippingStatus     `bson:"shippingStatus" json:"shippingStatus"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	// IsReviewed is a legacy whole-order flag; the per-item flag is the one
	// review acceptance uses.
	IsReviewed      bool       `bson:"isReviewed" json:"isReviewed"`
	PaymentDeadline *time.Time `bson:"paymentDeadline,omitempty" json:"paymentDeadline,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// NewOrder builds a new order in its initial state. Online-transfer orders
// record a payment deadline for the unpaid-order sweeper.
func NewOrder(customerID primitive.ObjectID, items []OrderItem, totalAmount float64, shippingAddress, paymentMethod string, unpaidTTL time.Duration) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	if totalAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}

	now := time.Now().UTC()
	order := &Order{
		CustomerID:      customerID,
		Items:           items,
		TotalAmount:     totalAmount,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
		Status:          PaymentStatusUnpaid,
		ShippingStatus:  ShippingAwaitingConfirmation,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if paymentMethod == PaymentMethodOnlineTransfer && unpaidTTL > 0 {
		deadline := now.Add(unpaidTTL)
		order.PaymentDeadline = &deadline
	}

	return order, nil
}

// SetPaymentStatus applies a caller-requested payment status change.
// Only UNPAID and PAID are accepted here; cancellation goes through Cancel.
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if status != PaymentStatusUnpaid && status != PaymentStatusPaid {
		return ErrInvalidPaymentStatus
	}
	if o.Status == PaymentStatusCancelled {
		return ErrOrderAlreadyCancelled
	}

	o.Status = status
	o.IsPaid = status == PaymentStatusPaid
	o.touch()
	return nil
}

// SetShippingStatus moves the order along the fulfillment pipeline.
// Transitioning to COMPLETED forces the payment state to PAID.
func (o *Order) SetShippingStatus(status ShippingStatus) error {
	switch status {
	case ShippingAwaitingConfirmation, ShippingConfirmed, ShippingInTransit,
		ShippingDeliveryFailed, ShippingCompleted, ShippingCancelled:
	default:
		return ErrInvalidShippingStatus
	}
	if o.Status == PaymentStatusCancelled {
		return ErrOrderAlreadyCancelled
	}

	if o.ShippingStatus == "" {
		o.ShippingStatus = ShippingAwaitingConfirmation
	}
	o.ShippingStatus = status

	if status == ShippingCompleted {
		o.Status = PaymentStatusPaid
		o.IsPaid = true
	}

	o.touch()
	return nil
}

// Cancel terminates the order. Paid orders cannot be cancelled, and
// cancellation is not repeatable.
func (o *Order) Cancel() error {
	if o.Status == PaymentStatusPaid {
		return ErrOrderAlreadyPaid
	}
	if o.Status == PaymentStatusCancelled {
		return ErrOrderAlreadyCancelled
	}

	o.Status = PaymentStatusCancelled
	o.ShippingStatus = ShippingCancelled
	o.touch()
	return nil
}

// MarkPaid records a reconciled payment. It is idempotent: marking an
// already-paid order is a no-op with the same end state.
func (o *Order) MarkPaid() error {
	if o.Status == PaymentStatusCancelled {
		return ErrOrderAlreadyCancelled
	}

	o.IsPaid = true
	o.Status = PaymentStatusPaid
	if o.ShippingStatus == "" {
		o.ShippingStatus = ShippingAwaitingConfirmation
	}
	o.touch()
	return nil
}

// MarkItemReviewed flips an item's review flag, exactly once, and only after
// the order has been paid and delivered.
func (o *Order) MarkItemReviewed(productID primitive.ObjectID) error {
	if o.Status != PaymentStatusPaid || o.ShippingStatus != ShippingCompleted {
		return ErrOrderNotReviewable
	}

	for i := range o.Items {
		if o.Items[i].ProductID != productID {
			continue
		}
		if o.Items[i].IsReviewed {
			return ErrItemAlreadyReviewed
		}
		o.Items[i].IsReviewed = true
		o.touch()
		return nil
	}
	return ErrItemNotInOrder
}

// PaymentExpired reports whether the order's payment deadline has passed
// while it is still unpaid.
func (o *Order) PaymentExpired(now time.Time) bool {
	return o.Status == PaymentStatusUnpaid &&
		o.PaymentDeadline != nil &&
		now.After(*o.PaymentDeadline)
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
