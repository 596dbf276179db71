package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"agromarket/internal/features/orders/domain"
	"agromarket/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeOrderRepository is an in-memory implementation of ports.OrderRepository.
type fakeOrderRepository struct {
	order  *domain.Order
	detail *domain.OrderDetail
}

func (f *fakeOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	order.ID = primitive.NewObjectID()
	f.order = order
	return nil
}

func (f *fakeOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	if f.order == nil || f.order.ID != id {
		return nil, nil
	}
	return f.order, nil
}

func (f *fakeOrderRepository) FindDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.OrderDetail, error) {
	return f.detail, nil
}

func (f *fakeOrderRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]domain.OrderDetail, error) {
	return []domain.OrderDetail{}, nil
}

func (f *fakeOrderRepository) FindBySupplier(ctx context.Context, supplierID primitive.ObjectID) ([]domain.OrderDetail, error) {
	return []domain.OrderDetail{}, nil
}

func (f *fakeOrderRepository) FindAll(ctx context.Context) ([]domain.OrderDetail, error) {
	return []domain.OrderDetail{}, nil
}

func (f *fakeOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	f.order = order
	return nil
}

func (f *fakeOrderRepository) UpdateShippingAddress(ctx context.Context, id primitive.ObjectID, address string) error {
	return nil
}

func (f *fakeOrderRepository) MarkItemReviewed(ctx context.Context, id, productID primitive.ObjectID) error {
	if f.order != nil && f.order.ID == id {
		for i := range f.order.Items {
			if f.order.Items[i].ProductID == productID {
				f.order.Items[i].IsReviewed = true
			}
		}
	}
	return nil
}

func (f *fakeOrderRepository) FindExpiredUnpaid(ctx context.Context, now time.Time) ([]domain.Order, error) {
	return nil, nil
}

// fakeStockReserver is a StockReserver returning a canned error.
type fakeStockReserver struct {
	err error
}

func (f *fakeStockReserver) Reserve(ctx context.Context, reservations []domain.Reservation) error {
	return f.err
}

func newTestApp(repo *fakeOrderRepository, stock *fakeStockReserver) *fiber.App {
	svc := service.NewOrderService(repo, stock, nil, nil, 30*time.Minute)
	h := NewOrderHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/orders", h.Create)
	app.Get("/orders/:id", h.GetByID)
	app.Patch("/orders/:id/cancel", h.Cancel)
	app.Patch("/orders/:id/status", h.UpdateStatus)
	app.Patch("/orders/:id/shipping-status", h.UpdateShippingStatus)
	app.Patch("/orders/:id", h.Patch)
	return app
}

func checkoutBody() []byte {
	body, _ := json.Marshal(service.CreateOrderInput{
		CustomerID: primitive.NewObjectID().Hex(),
		Items: []service.CreateOrderItem{
			{
				ProductID:  primitive.NewObjectID().Hex(),
				SupplierID: primitive.NewObjectID().Hex(),
				Quantity:   2,
				Price:      1000,
			},
		},
		TotalAmount:     2000,
		ShippingAddress: "12 Farm Rd",
		PaymentMethod:   domain.PaymentMethodCashOnDelivery,
	})
	return body
}

func TestOrderHandler_Create_Success(t *testing.T) {
	repo := &fakeOrderRepository{}
	app := newTestApp(repo, &fakeStockReserver{})

	req := httptest.NewRequest("POST", "/orders", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var order domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&order))
	assert.Equal(t, domain.PaymentStatusUnpaid, order.Status)
	assert.Equal(t, domain.ShippingAwaitingConfirmation, order.ShippingStatus)
}

func TestOrderHandler_Create_InsufficientStock(t *testing.T) {
	repo := &fakeOrderRepository{}
	app := newTestApp(repo, &fakeStockReserver{err: domain.ErrInsufficientStock})

	req := httptest.NewRequest("POST", "/orders", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, repo.order)
}

func TestOrderHandler_Create_InvalidBody(t *testing.T) {
	app := newTestApp(&fakeOrderRepository{}, &fakeStockReserver{})

	req := httptest.NewRequest("POST", "/orders", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOrderHandler_GetByID_NotFound(t *testing.T) {
	app := newTestApp(&fakeOrderRepository{}, &fakeStockReserver{})

	req := httptest.NewRequest("GET", "/orders/"+primitive.NewObjectID().Hex(), nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestOrderHandler_Cancel_PaidConflicts(t *testing.T) {
	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{
		{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500},
	}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
	order.ID = primitive.NewObjectID()
	require.NoError(t, order.MarkPaid())

	repo := &fakeOrderRepository{order: order}
	app := newTestApp(repo, &fakeStockReserver{})

	req := httptest.NewRequest("PATCH", "/orders/"+order.ID.Hex()+"/cancel", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, domain.PaymentStatusPaid, repo.order.Status)
}

func TestOrderHandler_UpdateStatus_Invalid(t *testing.T) {
	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{
		{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500},
	}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
	order.ID = primitive.NewObjectID()

	repo := &fakeOrderRepository{order: order}
	app := newTestApp(repo, &fakeStockReserver{})

	body, _ := json.Marshal(UpdateStatusRequest{Status: "CANCELLED"})
	req := httptest.NewRequest("PATCH", "/orders/"+order.ID.Hex()+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOrderHandler_Patch_RequiresAddress(t *testing.T) {
	app := newTestApp(&fakeOrderRepository{}, &fakeStockReserver{})

	body, _ := json.Marshal(PatchOrderRequest{})
	req := httptest.NewRequest("PATCH", "/orders/"+primitive.NewObjectID().Hex(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
