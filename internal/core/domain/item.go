package domain

import (
	"regexp"
	"strings"
	"time"
)

// UnknownUser is the principal recorded when no authentication context is available.
const UnknownUser = "unknown"

// Item is a catalog entry with its authoritative stock count.
// ID is assigned by the store on insert; Version backs the store's
// compare-and-swap update and is bumped on every successful write.
type Item struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     int64     `json:"price"`
	Version   int       `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var itemNamePattern = regexp.MustCompile(`^[a-zA-Z\s]+$`)

// ValidItemName reports whether name is a non-blank display name made of
// alphabets and spaces only.
func ValidItemName(name string) bool {
	return strings.TrimSpace(name) != "" && itemNamePattern.MatchString(name)
}

// OrderRequest is a validated order for a single item. It lives only for the
// duration of one PlaceOrder call and is never persisted.
type OrderRequest struct {
	ItemID   int64
	Quantity int
}
