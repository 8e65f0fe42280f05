package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

// OrderService orchestrates order fulfillment: it asks the stock ledger for a
// decrement and, when stock is short, emits a best-effort notification before
// rejecting the order. It also serves catalog reads. All collaborators are
// injected at construction; the service holds no per-request state.
type OrderService struct {
	store      port.ItemStore
	ledger     *StockLedger
	dispatcher *Dispatcher
}

func NewOrderService(store port.ItemStore, ledger *StockLedger, dispatcher *Dispatcher) *OrderService {
	return &OrderService{
		store:      store,
		ledger:     ledger,
		dispatcher: dispatcher,
	}
}

// PlaceOrder attempts to fulfil req on behalf of principal. On success the
// updated item is returned. An unknown item fails with no notification. On
// insufficient stock a notification event is dispatched and the order is
// rejected; the dispatch outcome never changes the error the caller sees.
func (s *OrderService) PlaceOrder(ctx context.Context, req domain.OrderRequest, principal string) (*domain.Item, error) {
	if principal == "" {
		principal = domain.UnknownUser
	}

	item, err := s.ledger.TryDecrement(ctx, req.ItemID, req.Quantity)
	if err == nil {
		return item, nil
	}

	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		s.dispatcher.Dispatch(domain.NotificationEvent{
			ItemID:       req.ItemID,
			OrderID:      uuid.NewString(),
			RequestedQty: req.Quantity,
			UserID:       principal,
		})
	}

	return nil, err
}

// GetItemByID returns the item or domain.ErrItemNotFound.
func (s *OrderService) GetItemByID(ctx context.Context, itemID int64) (*domain.Item, error) {
	item, err := s.store.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("find item %d: %w", itemID, err)
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// ListItems returns every catalog item.
func (s *OrderService) ListItems(ctx context.Context) ([]domain.Item, error) {
	return s.store.FindAll(ctx)
}

// ListLowStock returns items with quantity strictly below threshold, ordered
// ascending by quantity.
func (s *OrderService) ListLowStock(ctx context.Context, threshold int) ([]domain.Item, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]domain.Item, 0)
	for _, item := range items {
		if item.Quantity < threshold {
			low = append(low, item)
		}
	}
	sort.Slice(low, func(i, j int) bool { return low[i].Quantity < low[j].Quantity })

	return low, nil
}
