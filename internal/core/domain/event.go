package domain

// NotificationEvent describes an order that was rejected for lack of stock.
// OrderID is a fresh UUID used only for external correlation; no order record
// is persisted for it. Each event is delivered at most once.
type NotificationEvent struct {
	ItemID       int64  `json:"item_id"`
	OrderID      string `json:"order_id"`
	RequestedQty int    `json:"requested_qty"`
	UserID       string `json:"user_id"`
}
