package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agromarket/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockOrderRepository is a mock implementation of ports.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindDetailByID(ctx context.Context, id primitive.ObjectID) (*domain.OrderDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]domain.OrderDetail, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) FindBySupplier(ctx context.Context, supplierID primitive.ObjectID) ([]domain.OrderDetail, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context) ([]domain.OrderDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderDetail), args.Error(1)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateShippingAddress(ctx context.Context, id primitive.ObjectID, address string) error {
	args := m.Called(ctx, id, address)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkItemReviewed(ctx context.Context, id, productID primitive.ObjectID) error {
	args := m.Called(ctx, id, productID)
	return args.Error(0)
}

func (m *MockOrderRepository) FindExpiredUnpaid(ctx context.Context, now time.Time) ([]domain.Order, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

// MockStockReserver is a mock implementation of ports.StockReserver
type MockStockReserver struct {
	mock.Mock
}

func (m *MockStockReserver) Reserve(ctx context.Context, reservations []domain.Reservation) error {
	args := m.Called(ctx, reservations)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of ports.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerID: primitive.NewObjectID().Hex(),
		Items: []CreateOrderItem{
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
	}
}

func newTestService(repo *MockOrderRepository, stock *MockStockReserver, events *MockEventPublisher) *OrderService {
	return NewOrderService(repo, stock, events, nil, 30*time.Minute)
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockOrderRepository)
		stock := new(MockStockReserver)
		events := new(MockEventPublisher)
		svc := newTestService(repo, stock, events)

		input := validInput()

		stock.On("Reserve", ctx, mock.AnythingOfType("[]domain.Reservation")).Return(nil).Once()
		repo.On("Insert", ctx, mock.AnythingOfType("*domain.Order")).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = primitive.NewObjectID()
		}).Return(nil).Once()
		events.On("Publish", ctx, mock.AnythingOfType("domain.OrderEvent")).Return(nil).Once()

		order, err := svc.Create(ctx, input)
		require.NoError(t, err)

		assert.Equal(t, domain.PaymentStatusUnpaid, order.Status)
		assert.Equal(t, domain.ShippingAwaitingConfirmation, order.ShippingStatus)
		assert.Equal(t, 2000.0, order.TotalAmount)
		assert.Len(t, order.Items, 1)
		assert.Equal(t, 2, order.Items[0].Quantity)
		repo.AssertExpectations(t)
		stock.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		repo := new(MockOrderRepository)
		stock := new(MockStockReserver)
		svc := newTestService(repo, stock, new(MockEventPublisher))

		stock.On("Reserve", ctx, mock.Anything).Return(domain.ErrInsufficientStock).Once()

		_, err := svc.Create(ctx, validInput())
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	})

	t.Run("EmptyItems", func(t *testing.T) {
		repo := new(MockOrderRepository)
		stock := new(MockStockReserver)
		svc := newTestService(repo, stock, new(MockEventPublisher))

		input := validInput()
		input.Items = nil

		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, domain.ErrEmptyOrder)
		stock.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
	})

	t.Run("MalformedProductID", func(t *testing.T) {
		svc := newTestService(new(MockOrderRepository), new(MockStockReserver), new(MockEventPublisher))

		input := validInput()
		input.Items[0].ProductID = "not-an-object-id"

		_, err := svc.Create(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("OnlineTransferGetsDeadline", func(t *testing.T) {
		repo := new(MockOrderRepository)
		stock := new(MockStockReserver)
		events := new(MockEventPublisher)
		svc := newTestService(repo, stock, events)

		input := validInput()
		input.PaymentMethod = domain.PaymentMethodOnlineTransfer

		stock.On("Reserve", ctx, mock.Anything).Return(nil).Once()
		repo.On("Insert", ctx, mock.Anything).Return(nil).Once()
		events.On("Publish", ctx, mock.Anything).Return(nil).Once()

		order, err := svc.Create(ctx, input)
		require.NoError(t, err)
		assert.NotNil(t, order.PaymentDeadline)
	})
}

func TestOrderService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("PaidOrderConflicts", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

		order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
		order.ID = primitive.NewObjectID()
		require.NoError(t, order.MarkPaid())

		repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()

		_, err := svc.Cancel(ctx, order.ID.Hex())
		assert.ErrorIs(t, err, domain.ErrOrderAlreadyPaid)
		assert.Equal(t, domain.PaymentStatusPaid, order.Status)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("SecondCancelRefuses", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

		order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
		order.ID = primitive.NewObjectID()
		require.NoError(t, order.Cancel())

		repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()

		_, err := svc.Cancel(ctx, order.ID.Hex())
		assert.ErrorIs(t, err, domain.ErrOrderAlreadyCancelled)
	})

	t.Run("Success", func(t *testing.T) {
		repo := new(MockOrderRepository)
		events := new(MockEventPublisher)
		svc := newTestService(repo, new(MockStockReserver), events)

		order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
		order.ID = primitive.NewObjectID()
		detail := &domain.OrderDetail{ID: order.ID, Status: domain.PaymentStatusCancelled}

		repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()
		repo.On("Update", ctx, order).Return(nil).Once()
		repo.On("FindDetailByID", ctx, order.ID).Return(detail, nil).Once()
		events.On("Publish", ctx, mock.Anything).Return(nil).Once()

		got, err := svc.Cancel(ctx, order.ID.Hex())
		require.NoError(t, err)
		assert.Equal(t, detail, got)
		assert.Equal(t, domain.PaymentStatusCancelled, order.Status)
		assert.Equal(t, domain.ShippingCancelled, order.ShippingStatus)
		repo.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

		id := primitive.NewObjectID()
		repo.On("FindByID", ctx, id).Return(nil, nil).Once()

		_, err := svc.Cancel(ctx, id.Hex())
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderService_MarkPaid_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	events := new(MockEventPublisher)
	svc := newTestService(repo, new(MockStockReserver), events)

	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 2, Price: 1000}}, 2000, "addr", domain.PaymentMethodOnlineTransfer, time.Hour)
	order.ID = primitive.NewObjectID()

	repo.On("FindByID", ctx, order.ID).Return(order, nil).Twice()
	repo.On("Update", ctx, order).Return(nil).Twice()
	events.On("Publish", ctx, mock.Anything).Return(nil).Twice()

	first, err := svc.MarkPaid(ctx, order.ID.Hex())
	require.NoError(t, err)

	second, err := svc.MarkPaid(ctx, order.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ShippingStatus, second.ShippingStatus)
	assert.True(t, second.IsPaid)
	repo.AssertExpectations(t)
}

func TestOrderService_UpdateShippingStatus_CompletedForcesPaid(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
	order.ID = primitive.NewObjectID()

	repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()
	repo.On("Update", ctx, order).Return(nil).Once()

	updated, err := svc.UpdateShippingStatus(ctx, order.ID.Hex(), domain.ShippingCompleted)
	require.NoError(t, err)

	assert.Equal(t, domain.ShippingCompleted, updated.ShippingStatus)
	assert.Equal(t, domain.PaymentStatusPaid, updated.Status)
	assert.True(t, updated.IsPaid)
}

func TestOrderService_UpdatePaymentStatus_Restricted(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
	order.ID = primitive.NewObjectID()

	repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()

	_, err := svc.UpdatePaymentStatus(ctx, order.ID.Hex(), domain.PaymentStatusCancelled)
	assert.ErrorIs(t, err, domain.ErrInvalidPaymentStatus)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestOrderService_CorrectShippingAddress(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: primitive.NewObjectID(), SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "old addr", domain.PaymentMethodCashOnDelivery, 0)
	order.ID = primitive.NewObjectID()

	repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()
	repo.On("UpdateShippingAddress", ctx, order.ID, "new addr").Return(nil).Once()

	updated, err := svc.CorrectShippingAddress(ctx, order.ID.Hex(), "new addr")
	require.NoError(t, err)
	assert.Equal(t, "new addr", updated.ShippingAddress)
	repo.AssertExpectations(t)
}

func TestOrderService_MarkItemReviewed(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

	productID := primitive.NewObjectID()
	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: productID, SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
	order.ID = primitive.NewObjectID()
	require.NoError(t, order.SetShippingStatus(domain.ShippingCompleted))

	repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()
	repo.On("MarkItemReviewed", ctx, order.ID, productID).Return(nil).Once()

	err := svc.MarkItemReviewed(ctx, order.ID.Hex(), productID.Hex())
	require.NoError(t, err)
	assert.True(t, order.Items[0].IsReviewed)
	// The flag is persisted with a targeted update, never a full replace.
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestOrderService_MarkItemReviewed_GuardFailureDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc := newTestService(repo, new(MockStockReserver), new(MockEventPublisher))

	productID := primitive.NewObjectID()
	order, _ := domain.NewOrder(primitive.NewObjectID(), []domain.OrderItem{{ProductID: productID, SupplierID: primitive.NewObjectID(), Quantity: 1, Price: 500}}, 500, "addr", domain.PaymentMethodCashOnDelivery, 0)
	order.ID = primitive.NewObjectID()

	repo.On("FindByID", ctx, order.ID).Return(order, nil).Once()

	err := svc.MarkItemReviewed(ctx, order.ID.Hex(), productID.Hex())
	assert.ErrorIs(t, err, domain.ErrOrderNotReviewable)
	repo.AssertNotCalled(t, "MarkItemReviewed", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_PublishFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	stock := new(MockStockReserver)
	events := new(MockEventPublisher)
	svc := newTestService(repo, stock, events)

	stock.On("Reserve", ctx, mock.Anything).Return(nil).Once()
	repo.On("Insert", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Order).ID = primitive.NewObjectID()
	}).Return(nil).Once()
	events.On("Publish", ctx, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := svc.Create(ctx, validInput())
	assert.NoError(t, err)
}
