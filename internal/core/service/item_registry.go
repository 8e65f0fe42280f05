package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
	"github.com/pky2203/ecommerce-inventory/internal/port"
)

// ItemRegistry creates catalog items, enforcing name uniqueness.
type ItemRegistry struct {
	store port.ItemStore
}

func NewItemRegistry(store port.ItemStore) *ItemRegistry {
	return &ItemRegistry{store: store}
}

// AddItem validates and inserts a new item. Identity is store-assigned only;
// a caller-supplied ID is rejected. Two concurrent creates of the same name
// cannot both succeed: the store's name constraint breaks the tie and the
// loser is reported as a conflict.
func (r *ItemRegistry) AddItem(ctx context.Context, item domain.Item) (*domain.Item, error) {
	if item.ID != 0 {
		return nil, &domain.InvalidArgumentError{Reason: "new items must not provide an id, it is auto-generated"}
	}
	if !domain.ValidItemName(item.Name) {
		return nil, &domain.InvalidArgumentError{Reason: "item name must be non-blank and contain only alphabets and spaces"}
	}
	if item.Quantity <= 0 {
		return nil, &domain.InvalidArgumentError{Reason: "quantity must be greater than 0"}
	}
	if item.Price <= 0 {
		return nil, &domain.InvalidArgumentError{Reason: "price must be greater than 0"}
	}

	existing, err := r.store.FindByName(ctx, item.Name)
	if err != nil {
		return nil, fmt.Errorf("find item by name %q: %w", item.Name, err)
	}
	if existing != nil {
		return nil, &domain.ConflictError{Name: item.Name, ExistingID: existing.ID}
	}

	created, err := r.store.Insert(ctx, item)
	if errors.Is(err, port.ErrNameTaken) {
		return nil, r.nameConflict(ctx, item.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("insert item %q: %w", item.Name, err)
	}

	return created, nil
}

// nameConflict resolves the existing item's identity after the store refused
// an insert on the name constraint. The conflict itself is certain at that
// point; if the lookup fails, the failure is joined to the conflict so it
// reaches the caller instead of being dropped.
func (r *ItemRegistry) nameConflict(ctx context.Context, name string) error {
	conflict := &domain.ConflictError{Name: name}
	existing, err := r.store.FindByName(ctx, name)
	if err != nil {
		return errors.Join(conflict, fmt.Errorf("resolve conflicting item %q: %w", name, err))
	}
	if existing != nil {
		conflict.ExistingID = existing.ID
	}
	return conflict
}
