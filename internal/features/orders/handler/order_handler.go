package handler

import (
	"errors"
	"net/http"

	"agromarket/internal/core/logger"
	"agromarket/internal/features/orders/domain"
	"agromarket/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for the order lifecycle.
type OrderHandler struct {
	service *service.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// UpdateStatusRequest is the body for payment status updates.
type UpdateStatusRequest struct {
	Status domain.PaymentStatus `json:"status"`
}

// UpdateShippingStatusRequest is the body for shipping status updates.
type UpdateShippingStatusRequest struct {
	ShippingStatus domain.ShippingStatus `json:"shippingStatus"`
}

// PatchOrderRequest is the body for the whitelisted partial update.
type PatchOrderRequest struct {
	ShippingAddress string `json:"shippingAddress"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// fail maps service and domain sentinel errors onto HTTP statuses.
func fail(c *fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPaymentStatus),
		errors.Is(err, domain.ErrInvalidShippingStatus),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrItemNotInOrder):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrOrderAlreadyPaid),
		errors.Is(err, domain.ErrOrderAlreadyCancelled),
		errors.Is(err, domain.ErrItemAlreadyReviewed),
		errors.Is(err, domain.ErrOrderNotReviewable):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Get().Error("Order request failed",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		msg = "Internal server error"
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID(c),
	})
}

// Create handles POST /orders.
// @Summary Create an order
// @Description Reserves stock for every item and creates the order in its initial state.
// @Tags Orders
// @Accept json
// @Produce json
// @Param order body service.CreateOrderInput true "Checkout request"
// @Success 201 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var input service.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	order, err := h.service.Create(c.Context(), input)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(order)
}

// GetByID handles GET /orders/:id.
// @Summary Get order detail
// @Description Fetch one order joined with product, category, supplier and customer data.
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDetail
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	detail, err := h.service.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(detail)
}

// ListAll handles GET /orders.
// @Summary List all orders
// @Tags Orders
// @Produce json
// @Success 200 {array} domain.OrderDetail
// @Router /orders [get]
func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	details, err := h.service.ListAll(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(details)
}

// ListByCustomer handles GET /orders/customer/:id.
// @Summary List a customer's orders
// @Tags Orders
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {array} domain.OrderDetail
// @Router /orders/customer/{id} [get]
func (h *OrderHandler) ListByCustomer(c *fiber.Ctx) error {
	details, err := h.service.ListByCustomer(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(details)
}

// ListBySupplier handles GET /orders/supplier/:id.
// @Summary List orders containing a supplier's items
// @Tags Orders
// @Produce json
// @Param id path string true "Supplier ID"
// @Success 200 {array} domain.OrderDetail
// @Router /orders/supplier/{id} [get]
func (h *OrderHandler) ListBySupplier(c *fiber.Ctx) error {
	details, err := h.service.ListBySupplier(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(details)
}

// UpdateStatus handles PATCH /orders/:id/status.
// @Summary Update payment status
// @Description Restricted to UNPAID and PAID.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body UpdateStatusRequest true "New payment status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	order, err := h.service.UpdatePaymentStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(order)
}

// UpdateShippingStatus handles PATCH /orders/:id/shipping-status.
// @Summary Update shipping status
// @Description Moving to COMPLETED also marks the order paid.
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body UpdateShippingStatusRequest true "New shipping status"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders/{id}/shipping-status [patch]
func (h *OrderHandler) UpdateShippingStatus(c *fiber.Ctx) error {
	var req UpdateShippingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	order, err := h.service.UpdateShippingStatus(c.Context(), c.Params("id"), req.ShippingStatus)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(order)
}

// Cancel handles PATCH /orders/:id/cancel.
// @Summary Cancel an order
// @Description Paid orders cannot be cancelled; cancelling twice conflicts.
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.OrderDetail
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	detail, err := h.service.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(detail)
}

// Patch handles PATCH /orders/:id. Only the shipping address can be merged
// here; every state transition has its own operation.
// @Summary Correct the shipping address
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body PatchOrderRequest true "Fields to merge"
// @Success 200 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders/{id} [patch]
func (h *OrderHandler) Patch(c *fiber.Ctx) error {
	var req PatchOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}
	if req.ShippingAddress == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "shippingAddress is required",
			RayID:   rayID(c),
		})
	}

	order, err := h.service.CorrectShippingAddress(c.Context(), c.Params("id"), req.ShippingAddress)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(order)
}

// MarkItemReviewed handles PATCH /orders/:id/items/:productId/reviewed.
// Invoked by the review module once a review is accepted for a line item.
// @Summary Mark a line item as reviewed
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Param productId path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/items/{productId}/reviewed [patch]
func (h *OrderHandler) MarkItemReviewed(c *fiber.Ctx) error {
	err := h.service.MarkItemReviewed(c.Context(), c.Params("id"), c.Params("productId"))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Item marked as reviewed",
	})
}
