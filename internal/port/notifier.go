package port

import (
	"context"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
)

// Notifier delivers insufficient-stock events to an external channel.
// Implementations make a single attempt; retry policy is not theirs to own.
type Notifier interface {
	Notify(ctx context.Context, event domain.NotificationEvent) error
}
