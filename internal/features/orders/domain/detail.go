package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerInfo is the customer display data joined onto order reads.
type CustomerInfo struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Phone   string             `bson:"phone" json:"phone"`
	Email   string             `bson:"email" json:"email"`
	Address string             `bson:"address" json:"address"`
}

// OrderItemDetail is a line item enriched with product, category and supplier
// display data for the storefront and dashboards.
type OrderItemDetail struct {
	OrderItem    `bson:",inline"`
	ProductName  string   `bson:"productName" json:"productName"`
	ProductImage []string `bson:"productImages" json:"productImages"`
	CategoryName string   `bson:"categoryName" json:"categoryName"`
	SupplierName string   `bson:"supplierName" json:"supplierName"`
}

// OrderDetail is the joined read model of an order. It is never written back.
type OrderDetail struct {
	ID              primitive.ObjectID `bson:"_id" json:"id"`
	Customer        CustomerInfo       `bson:"customer" json:"customer"`
	Items           []OrderItemDetail  `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress string             `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	Status          PaymentStatus      `bson:"status" json:"status"`
	ShippingStatus  ShippingStatus     `bson:"shippingStatus" json:"shippingStatus"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Reservation is a stock reservation request for a single product.
type Reservation struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// OrderEventType identifies an order lifecycle event.
type OrderEventType string

const (
	OrderCreated   OrderEventType = "order.created"
	OrderPaid      OrderEventType = "order.paid"
	OrderCancelled OrderEventType = "order.cancelled"
)

// OrderEvent is the payload published to the event broker on lifecycle
// transitions.
type OrderEvent struct {
	EventID     string         `json:"event_id"`
	Type        OrderEventType `json:"type"`
	OrderID     string         `json:"order_id"`
	CustomerID  string         `json:"customer_id"`
	TotalAmount float64        `json:"total_amount"`
	OccurredAt  time.Time      `json:"occurred_at"`
}
