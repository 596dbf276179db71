package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"agromarket/internal/core/config"
	"agromarket/internal/core/logger"
	"agromarket/internal/core/metrics"
	ordersdomain "agromarket/internal/features/orders/domain"
	orderservice "agromarket/internal/features/orders/service"
	"agromarket/internal/features/payments/domain"

	"go.uber.org/zap"
)

// ErrInvalidAPIKey is returned when the webhook authorization key does not
// match the configured secret.
var ErrInvalidAPIKey = errors.New("invalid api key")

// referencePattern extracts the order reference customers put in the
// transfer description: the literal token "don" followed by a 24-character
// hex order id.
var referencePattern = regexp.MustCompile(`(?i)don\s*([0-9a-f]{24})`)

// OrderTransitions is the slice of the order service the reconciler needs.
type OrderTransitions interface {
	GetByID(ctx context.Context, id string) (*ordersdomain.OrderDetail, error)
	MarkPaid(ctx context.Context, id string) (*ordersdomain.Order, error)
}

// Result is the outcome of reconciling a single notification. Soft outcomes
// (ignored, no reference, order not found, amount mismatch) are not errors:
// the gateway forwards every transfer on the account and must not
// retry-storm over unrelated transactions.
type Result struct {
	Outcome domain.Outcome      `json:"outcome"`
	Message string              `json:"message"`
	Order   *ordersdomain.Order `json:"order,omitempty"`
}

// Reconciler matches inbound payment notifications to orders and marks them
// paid. The webhook secret is injected at construction, never read from the
// environment at call time.
type Reconciler struct {
	cfg     config.PaymentConfig
	orders  OrderTransitions
	metrics *metrics.Metrics
}

// NewReconciler creates a new Reconciler.
func NewReconciler(cfg config.PaymentConfig, orders OrderTransitions, m *metrics.Metrics) *Reconciler {
	return &Reconciler{
		cfg:     cfg,
		orders:  orders,
		metrics: m,
	}
}

// Authorize validates the webhook authorization header value, which is
// expected to look like "Apikey <secret>".
func (r *Reconciler) Authorize(authorization string) error {
	cleaned := strings.TrimSpace(authorization)
	if len(cleaned) >= 7 && strings.EqualFold(cleaned[:7], "apikey ") {
		cleaned = strings.TrimSpace(cleaned[7:])
	}
	if cleaned == "" || cleaned != r.cfg.WebhookAPIKey {
		return ErrInvalidAPIKey
	}
	return nil
}

// Reconcile processes one notification. Receiving the same notification
// twice is safe: marking an already-paid order paid is a no-op.
func (r *Reconciler) Reconcile(ctx context.Context, n domain.Notification) (*Result, error) {
	if n.TransferType != domain.TransferDirectionIn {
		return r.soft(domain.OutcomeIgnored, "not an incoming transfer, skipped",
			zap.String("transfer_type", n.TransferType)), nil
	}

	matched := referencePattern.FindStringSubmatch(n.Content)
	if matched == nil {
		return r.soft(domain.OutcomeNoReference, "no order reference found in transfer content",
			zap.String("content", n.Content)), nil
	}
	orderID := strings.ToLower(matched[1])

	detail, err := r.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderservice.ErrOrderNotFound) {
			return r.soft(domain.OutcomeOrderNotFound, "referenced order does not exist",
				zap.String("order_id", orderID)), nil
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}

	if n.TransferAmount != detail.TotalAmount {
		return r.soft(domain.OutcomeAmountMismatch, "transfer amount does not match order total",
			zap.String("order_id", orderID),
			zap.Float64("transfer_amount", n.TransferAmount),
			zap.Float64("order_total", detail.TotalAmount)), nil
	}

	order, err := r.orders.MarkPaid(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark order %s paid: %w", orderID, err)
	}

	r.count(domain.OutcomePaid)
	return &Result{
		Outcome: domain.OutcomePaid,
		Message: "payment reconciled",
		Order:   order,
	}, nil
}

// soft records a non-error outcome. These paths are logged at Warn so that
// genuine misconfigurations stay visible even though no error is raised.
func (r *Reconciler) soft(outcome domain.Outcome, message string, fields ...zap.Field) *Result {
	fields = append(fields, zap.String("outcome", string(outcome)))
	logger.Get().Warn("Payment notification not reconciled", fields...)
	r.count(outcome)
	return &Result{
		Outcome: outcome,
		Message: message,
	}
}

func (r *Reconciler) count(outcome domain.Outcome) {
	if r.metrics != nil {
		r.metrics.WebhookOutcomes.WithLabelValues(string(outcome)).Inc()
	}
}
