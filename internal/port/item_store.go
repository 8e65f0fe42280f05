package port

import (
	"context"
	"errors"

	"github.com/pky2203/ecommerce-inventory/internal/core/domain"
)

// ErrVersionConflict is returned by Update when the stored version no longer
// matches the one the caller read.
var ErrVersionConflict = errors.New("version conflict")

// ErrNameTaken is returned by Insert when another item already holds the name.
var ErrNameTaken = errors.New("item name already taken")

// ItemStore is the durable mapping from item identity to its record.
// It is the only shared mutable resource; all mutation goes through the
// stock ledger (quantity) or the item registry (creation).
type ItemStore interface {
	// FindByID returns the item or (nil, nil) when absent.
	FindByID(ctx context.Context, id int64) (*domain.Item, error)

	// FindByName returns the item whose name matches exactly, or (nil, nil).
	FindByName(ctx context.Context, name string) (*domain.Item, error)

	// FindAll returns every item, in no particular order.
	FindAll(ctx context.Context) ([]domain.Item, error)

	// Insert persists a new item, assigning its identity.
	Insert(ctx context.Context, item domain.Item) (*domain.Item, error)

	// Update overwrites name/quantity/price if the stored version equals
	// item.Version, bumping the version; returns ErrVersionConflict otherwise.
	Update(ctx context.Context, item domain.Item) error
}
