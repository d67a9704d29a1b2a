package checkout

import "time"

type OrderStatus string

// Only PENDING is ever recorded: an order row exists exactly when payment
// succeeded and stock was decremented, and fulfillment picks it up from
// there.
const OrderPending OrderStatus = "PENDING"

type Order struct {
	ID         string      `json:"id"`
	BuyerID    string      `json:"buyer_id"`
	TotalCents int64       `json:"total_cents"`
	Status     OrderStatus `json:"status"`
	PaymentRef string      `json:"payment_ref"`
	CreatedAt  time.Time   `json:"created_at"`
}

type Receipt struct {
	OrderID    string `json:"order_id"`
	TotalCents int64  `json:"total_cents"`
}
