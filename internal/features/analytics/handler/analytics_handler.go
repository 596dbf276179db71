package handler

import (
	"errors"
	"net/http"

	"agromarket/internal/core/logger"
	"agromarket/internal/features/analytics/domain"
	"agromarket/internal/features/analytics/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AnalyticsHandler handles the dashboard read endpoints.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(s *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
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

// ProductCountResponse wraps the approved product count.
type ProductCountResponse struct {
	Count int64 `json:"count"`
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
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidDateRange),
		errors.Is(err, domain.ErrInvalidPeriodUnit):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logger.Get().Error("Analytics request failed",
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

// SupplierRevenue handles GET /orders/supplier/:id/revenue.
// @Summary Supplier revenue summary
// @Description Total revenue, distinct completed orders and units sold for one supplier's items.
// @Tags Analytics
// @Produce json
// @Param id path string true "Supplier ID"
// @Param from query string false "Range start (ISO date)"
// @Param to query string false "Range end (ISO date)"
// @Success 200 {object} domain.SupplierRevenue
// @Failure 400 {object} ErrorResponse
// @Router /orders/supplier/{id}/revenue [get]
func (h *AnalyticsHandler) SupplierRevenue(c *fiber.Ctx) error {
	summary, err := h.service.RevenueForSupplier(c.Context(), c.Params("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

// DailyRevenue handles GET /orders/supplier/:id/daily-revenue.
// @Summary Supplier daily revenue
// @Description Completed revenue bucketed by calendar day, ascending.
// @Tags Analytics
// @Produce json
// @Param id path string true "Supplier ID"
// @Param from query string false "Range start (ISO date)"
// @Param to query string false "Range end (ISO date)"
// @Success 200 {array} domain.RevenuePoint
// @Failure 400 {object} ErrorResponse
// @Router /orders/supplier/{id}/daily-revenue [get]
func (h *AnalyticsHandler) DailyRevenue(c *fiber.Ctx) error {
	points, err := h.service.DailyRevenue(c.Context(), c.Params("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(points)
}

// SupplierTopProducts handles GET /orders/supplier/:id/top-products.
// @Summary Supplier top products
// @Description Products ranked by units sold, descending.
// @Tags Analytics
// @Produce json
// @Param id path string true "Supplier ID"
// @Param from query string false "Range start (ISO date)"
// @Param to query string false "Range end (ISO date)"
// @Param limit query int false "Row limit" default(5)
// @Success 200 {array} domain.ProductSales
// @Failure 400 {object} ErrorResponse
// @Router /orders/supplier/{id}/top-products [get]
func (h *AnalyticsHandler) SupplierTopProducts(c *fiber.Ctx) error {
	rows, err := h.service.TopProductsForSupplier(c.Context(), c.Params("id"), c.Query("from"), c.Query("to"), c.QueryInt("limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// SupplierOrderStatus handles GET /orders/supplier/:id/order-status.
// @Summary Supplier order status breakdown
// @Description Counts of the supplier's order items grouped by shipping status.
// @Tags Analytics
// @Produce json
// @Param id path string true "Supplier ID"
// @Param from query string false "Range start (ISO date)"
// @Param to query string false "Range end (ISO date)"
// @Success 200 {array} domain.StatusCount
// @Failure 400 {object} ErrorResponse
// @Router /orders/supplier/{id}/order-status [get]
func (h *AnalyticsHandler) SupplierOrderStatus(c *fiber.Ctx) error {
	rows, err := h.service.OrderStatusSummaryForSupplier(c.Context(), c.Params("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// RevenueSummary handles GET /orders/revenue-summary.
// @Summary System revenue by period
// @Description Completed revenue bucketed by day, month or year.
// @Tags Analytics
// @Produce json
// @Param unit query string false "Bucket unit: day, month or year" default(day)
// @Success 200 {array} domain.RevenuePoint
// @Failure 400 {object} ErrorResponse
// @Router /orders/revenue-summary [get]
func (h *AnalyticsHandler) RevenueSummary(c *fiber.Ctx) error {
	points, err := h.service.RevenueByPeriod(c.Context(), c.Query("unit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(points)
}

// SupplierRevenueBreakdown handles GET /orders/supplier-revenue.
// @Summary Revenue per supplier
// @Description All-time completed revenue and units sold per supplier.
// @Tags Analytics
// @Produce json
// @Success 200 {array} domain.SupplierRevenueRow
// @Router /orders/supplier-revenue [get]
func (h *AnalyticsHandler) SupplierRevenueBreakdown(c *fiber.Ctx) error {
	rows, err := h.service.RevenueBySupplier(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// OrderSummary handles GET /orders/order-summary.
// @Summary Order count summary
// @Description Total order count against completed order count.
// @Tags Analytics
// @Produce json
// @Success 200 {object} domain.OrderCounts
// @Router /orders/order-summary [get]
func (h *AnalyticsHandler) OrderSummary(c *fiber.Ctx) error {
	counts, err := h.service.OrderCountSummary(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(counts)
}

// ProductCount handles GET /orders/product-count.
// @Summary Approved product count
// @Description Count of active products that passed moderation.
// @Tags Analytics
// @Produce json
// @Success 200 {object} ProductCountResponse
// @Router /orders/product-count [get]
func (h *AnalyticsHandler) ProductCount(c *fiber.Ctx) error {
	count, err := h.service.ApprovedProductCount(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(ProductCountResponse{Count: count})
}

// StockByCategory handles GET /orders/stock-by-category.
// @Summary Stock by category
// @Description Remaining product stock summed per category.
// @Tags Analytics
// @Produce json
// @Success 200 {array} domain.CategoryStock
// @Router /orders/stock-by-category [get]
func (h *AnalyticsHandler) StockByCategory(c *fiber.Ctx) error {
	rows, err := h.service.StockByCategory(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// OrderStatusSummary handles GET /orders/order-status-summary.
// @Summary System order status breakdown
// @Description Counts of whole orders grouped by shipping status.
// @Tags Analytics
// @Produce json
// @Param from query string false "Range start (ISO date)"
// @Param to query string false "Range end (ISO date)"
// @Success 200 {array} domain.StatusCount
// @Failure 400 {object} ErrorResponse
// @Router /orders/order-status-summary [get]
func (h *AnalyticsHandler) OrderStatusSummary(c *fiber.Ctx) error {
	rows, err := h.service.OrderStatusSummary(c.Context(), c.Query("from"), c.Query("to"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// TopProducts handles GET /orders/top-products.
// @Summary System top products
// @Description Products ranked by units sold across all suppliers.
// @Tags Analytics
// @Produce json
// @Param from query string false "Range start (ISO date)"
// @Param to query string false "Range end (ISO date)"
// @Param limit query int false "Row limit" default(10)
// @Success 200 {array} domain.ProductSales
// @Failure 400 {object} ErrorResponse
// @Router /orders/top-products [get]
func (h *AnalyticsHandler) TopProducts(c *fiber.Ctx) error {
	rows, err := h.service.TopProducts(c.Context(), c.Query("from"), c.Query("to"), c.QueryInt("limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}

// BestSelling handles GET /orders/best-selling.
// @Summary Best selling products
// @Description Top products by units sold in completed orders, approved products only.
// @Tags Analytics
// @Produce json
// @Param limit query int false "Row limit" default(5)
// @Success 200 {array} domain.BestSeller
// @Router /orders/best-selling [get]
func (h *AnalyticsHandler) BestSelling(c *fiber.Ctx) error {
	rows, err := h.service.BestSelling(c.Context(), c.QueryInt("limit"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(rows)
}
