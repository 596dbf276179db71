package service

import (
	"context"
	"time"

	"agromarket/internal/core/logger"
	"agromarket/internal/core/metrics"
	"agromarket/internal/features/orders/domain"
	"agromarket/internal/features/orders/ports"

	"go.uber.org/zap"
)

// UnpaidSweeper cancels online-transfer orders whose payment deadline passed
// without a reconciled payment. It replaces the old client-driven timeout:
// the deadline is recorded on the order at creation and enforced here,
// independent of any client polling.
type UnpaidSweeper struct {
	repo     ports.OrderRepository
	events   ports.EventPublisher
	metrics  *metrics.Metrics
	interval time.Duration
	clock    func() time.Time
}

// NewUnpaidSweeper creates a new UnpaidSweeper.
func NewUnpaidSweeper(repo ports.OrderRepository, events ports.EventPublisher, m *metrics.Metrics, interval time.Duration) *UnpaidSweeper {
	return &UnpaidSweeper{
		repo:     repo,
		events:   events,
		metrics:  m,
		interval: interval,
		clock:    func() time.Time { return time.Now().UTC() },
	}
}

// Run sweeps on every tick until the context is cancelled.
func (w *UnpaidSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := w.Sweep(ctx); err != nil {
				logger.Get().Error("Unpaid order sweep failed", zap.Error(err))
			} else if n > 0 {
				logger.Get().Info("Cancelled expired unpaid orders", zap.Int("count", n))
			}
		}
	}
}

// Sweep cancels every expired unpaid order once and returns how many were
// cancelled.
func (w *UnpaidSweeper) Sweep(ctx context.Context) (int, error) {
	now := w.clock()
	expired, err := w.repo.FindExpiredUnpaid(ctx, now)
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for i := range expired {
		order := &expired[i]
		if !order.PaymentExpired(now) {
			continue
		}
		if err := order.Cancel(); err != nil {
			// Raced with a payment or another cancel; skip.
			continue
		}
		if err := w.repo.Update(ctx, order); err != nil {
			logger.Get().Error("Failed to cancel expired order",
				zap.String("order_id", order.ID.Hex()),
				zap.Error(err),
			)
			continue
		}
		cancelled++

		if w.metrics != nil {
			w.metrics.OrdersCancelled.WithLabelValues("sweeper").Inc()
		}
		if w.events != nil {
			event := domain.OrderEvent{
				Type:        domain.OrderCancelled,
				OrderID:     order.ID.Hex(),
				CustomerID:  order.CustomerID.Hex(),
				TotalAmount: order.TotalAmount,
				OccurredAt:  now,
			}
			if err := w.events.Publish(ctx, event); err != nil {
				logger.Get().Warn("Failed to publish sweep cancellation",
					zap.String("order_id", event.OrderID),
					zap.Error(err),
				)
			}
		}
	}
	return cancelled, nil
}
