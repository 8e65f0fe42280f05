package domain

import (
	"errors"
	"fmt"
)

// ErrItemNotFound is returned when a referenced item identity does not exist.
var ErrItemNotFound = errors.New("item not found")

// InsufficientStockError is returned when a requested quantity exceeds the
// available stock. The item is left untouched.
type InsufficientStockError struct {
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: requested = %d, available = %d", e.Requested, e.Available)
}

// ConflictError is returned when creating an item whose name is already taken.
// ExistingID identifies the item holding the name, for diagnostics.
type ConflictError struct {
	Name       string
	ExistingID int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("item with name %q already exists with id %d", e.Name, e.ExistingID)
}

// InvalidArgumentError is returned for malformed creation requests.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return e.Reason
}
