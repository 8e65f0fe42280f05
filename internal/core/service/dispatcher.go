package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

const defaultDispatchTimeout = 2 * time.Second

// Dispatcher delivers insufficient-stock events to the notification channel.
// Delivery is fire-and-forget: a single bounded attempt whose failure is
// logged and swallowed, never surfaced to the caller.
type Dispatcher struct {
	notifier port.Notifier
	timeout  time.Duration
	logger   *zap.Logger
}

func NewDispatcher(notifier port.Notifier, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, logger: logger}
}

// Dispatch attempts exactly one delivery of event. The attempt runs under its
// own deadline, detached from the caller's context, so an abandoned request
// cannot cut the attempt short and a slow channel cannot hold the caller past
// the timeout.
func (d *Dispatcher) Dispatch(event domain.NotificationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.Notify(ctx, event); err != nil {
		d.logger.Warn("insufficient stock notification failed",
			zap.Int64("item_id", event.ItemID),
			zap.String("order_id", event.OrderID),
			zap.Error(err),
		)
		return
	}

	d.logger.Info("insufficient stock notification sent",
		zap.Int64("item_id", event.ItemID),
		zap.String("order_id", event.OrderID),
		zap.Int("requested_qty", event.RequestedQty),
		zap.String("user_id", event.UserID),
	)
}
