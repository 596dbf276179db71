package handler

import (
	"errors"
	"net/http"

	"agromarket/internal/core/logger"
	"agromarket/internal/features/payments/domain"
	"agromarket/internal/features/payments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebhookHandler receives payment gateway notifications.
type WebhookHandler struct {
	reconciler *service.Reconciler
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(r *service.Reconciler) *WebhookHandler {
	return &WebhookHandler{
		reconciler: r,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}

// Notify handles POST /api/paymentapi/payment.
// The gateway forwards every transfer on the account, so unmatched
// notifications still answer 200 with an informational outcome. A retryable
// error status would make the gateway hammer us over transfers that will
// never match an order.
// @Summary Receive a payment notification
// @Description Matches an incoming bank transfer to an order by the reference in its content and marks the order paid.
// @Tags Payments
// @Accept json
// @Produce json
// @Param Authorization header string true "Apikey <secret>"
// @Param notification body domain.Notification true "Gateway notification"
// @Success 200 {object} service.Result
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/paymentapi/payment [post]
func (h *WebhookHandler) Notify(c *fiber.Ctx) error {
	if err := h.reconciler.Authorize(c.Get(fiber.HeaderAuthorization)); err != nil {
		if errors.Is(err, service.ErrInvalidAPIKey) {
			return c.Status(http.StatusUnauthorized).JSON(ErrorResponse{
				Message: "Invalid API key",
				RayID:   rayID(c),
			})
		}
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	var notification domain.Notification
	if err := c.BodyParser(&notification); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	result, err := h.reconciler.Reconcile(c.Context(), notification)
	if err != nil {
		logger.Get().Error("Payment reconciliation failed",
			zap.String("ray_id", rayID(c)),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Internal server error",
			RayID:   rayID(c),
		})
	}

	return c.Status(http.StatusOK).JSON(result)
}
