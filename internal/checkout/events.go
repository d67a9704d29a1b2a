package checkout

import (
	"encoding/json"
	"time"

	"github.com/baskoroadi/go-market-checkout/internal/cart"
)

const (
	EventOrderPlaced = "OrderPlaced"

	TopicOrderPlaced = "market.order.placed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID    string      `json:"order_id"`
	BuyerID    string      `json:"buyer_id"`
	Lines      []cart.Line `json:"lines"`
	TotalCents int64       `json:"total_cents"`
	PaymentRef string      `json:"payment_ref"`
}

// Partition key = order_id so events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
