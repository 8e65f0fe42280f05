package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

// StockLedger performs the atomic check-and-decrement that guards the
// no-oversell invariant. It has no side effects beyond the store write and
// never triggers notification.
type StockLedger struct {
	store port.ItemStore
}

func NewStockLedger(store port.ItemStore) *StockLedger {
	return &StockLedger{store: store}
}

// TryDecrement reduces the item's stock by quantity if enough is available.
// The read and the write are made indivisible per item through the store's
// version compare: a conflicting write means another caller committed first,
// so the loop re-reads and decides again against fresh state. Distinct items
// never contend. Stock only ever moves down here, so a non-positive quantity
// is rejected before the store is touched.
func (l *StockLedger) TryDecrement(ctx context.Context, itemID int64, quantity int) (*domain.Item, error) {
	if quantity <= 0 {
		return nil, &domain.InvalidArgumentError{Reason: "quantity must be greater than 0"}
	}

	for {
		item, err := l.store.FindByID(ctx, itemID)
		if err != nil {
			return nil, fmt.Errorf("find item %d: %w", itemID, err)
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}

		if quantity > item.Quantity {
			return nil, &domain.InsufficientStockError{
				Requested: quantity,
				Available: item.Quantity,
			}
		}

		updated := *item
		updated.Quantity = item.Quantity - quantity

		err = l.store.Update(ctx, updated)
		if errors.Is(err, port.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update item %d: %w", itemID, err)
		}

		updated.Version++
		return &updated, nil
	}
}
