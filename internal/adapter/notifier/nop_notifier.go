package notifier

import (
	"context"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
)

// NopNotifier discards every event. Used when no notification channel is
// configured and as a stand-in in tests.
type NopNotifier struct{}

func NewNopNotifier() *NopNotifier {
	return &NopNotifier{}
}

func (NopNotifier) Notify(ctx context.Context, event domain.NotificationEvent) error {
	return nil
}
