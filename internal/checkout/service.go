package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/baskoroadi/go-market-checkout/internal/cart"
	"github.com/baskoroadi/go-market-checkout/internal/catalog"
	"github.com/baskoroadi/go-market-checkout/internal/identity"
	kafkax "github.com/baskoroadi/go-market-checkout/internal/kafka"
	"github.com/baskoroadi/go-market-checkout/internal/payment"
	"github.com/baskoroadi/go-market-checkout/internal/redisx"
)

// Actor is the session placing the order. SessionID scopes the cart;
// only authenticated buyers get past the orchestrator.
type Actor struct {
	SessionID string
	UserID    string
	Role      identity.Role
}

type CartAccess interface {
	Snapshot(sessionID string) []cart.Line
	Clear(sessionID string)
}

type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type Authorizer interface {
	Authorize(ctx context.Context, amountCents int64, instrumentID string) (payment.Outcome, error)
}

type OrderStore interface {
	FinalizeOrder(ctx context.Context, order *Order, lines []cart.Line) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service runs one checkout attempt end to end: validate the cart against
// live inventory, authorize payment, then commit the order plus stock
// decrements as one unit. Any failure before the commit leaves cart and
// inventory untouched; a failure inside the commit rolls the unit back.
type Service struct {
	Carts    CartAccess
	Products ProductReader
	Orders   OrderStore
	Gateway  Authorizer

	// Optional post-commit collaborators.
	Producer    Publisher
	Redis       *redis.Client
	ServiceName string
}

func (s *Service) PlaceOrder(ctx context.Context, actor Actor, instrumentID string) (*Receipt, error) {
	if actor.UserID == "" || actor.Role != identity.RoleBuyer {
		return nil, ErrUnauthorized
	}

	lines := s.Carts.Snapshot(actor.SessionID)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Recompute the total from live store state. Lines whose product has
	// disappeared are skipped, not fatal: the rest of the cart can still
	// check out.
	var total int64
	resolved := make([]cart.Line, 0, len(lines))
	for _, ln := range lines {
		p, err := s.Products.GetProduct(ctx, ln.ProductID)
		if errors.Is(err, catalog.ErrProductNotFound) {
			log.Printf("WARNING: product %d in cart no longer exists, skipping", ln.ProductID)
			continue
		}
		if err != nil {
			return nil, &StorageError{Cause: err}
		}
		total += p.PriceCents * int64(ln.Qty)
		resolved = append(resolved, ln)
	}
	if total <= 0 {
		return nil, ErrZeroTotal
	}

	outcome, err := s.Gateway.Authorize(ctx, total, instrumentID)
	if err != nil {
		return nil, err
	}
	switch outcome.Status {
	case payment.StatusAuthorized:
	case payment.StatusGatewayError:
		return nil, &GatewayError{Reason: outcome.Reason}
	default:
		return nil, &PaymentError{Reason: outcome.Reason}
	}

	order := &Order{
		ID:         uuid.NewString(),
		BuyerID:    actor.UserID,
		TotalCents: total,
		Status:     OrderPending,
		PaymentRef: outcome.Reference,
		CreatedAt:  time.Now().UTC(),
	}

	// Payment has been captured; the commit unit must run to completion or
	// roll back even if the caller goes away.
	if err := s.Orders.FinalizeOrder(context.WithoutCancel(ctx), order, resolved); err != nil {
		if errors.Is(err, ErrOutOfStock) {
			return nil, err
		}
		return nil, &StorageError{Cause: err}
	}

	s.Carts.Clear(actor.SessionID)
	s.afterCommit(order, resolved)

	return &Receipt{OrderID: order.ID, TotalCents: order.TotalCents}, nil
}

// afterCommit publishes the placement event and warms the status cache.
// Both are best effort; the order is already durable.
func (s *Service) afterCommit(order *Order, lines []cart.Line) {
	if s.Producer != nil {
		ev := Envelope{
			EventID:       uuid.NewString(),
			EventType:     EventOrderPlaced,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      s.ServiceName,
			CorrelationID: order.ID,
			Payload: kafkax.MustMarshal(OrderPlacedPayload{
				OrderID:    order.ID,
				BuyerID:    order.BuyerID,
				Lines:      lines,
				TotalCents: order.TotalCents,
				PaymentRef: order.PaymentRef,
			}),
		}
		s.Producer.Publish(PartitionKey(order.ID), kafkax.MustMarshal(ev),
			kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}

	if s.Redis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		key := fmt.Sprintf(redisx.KeyOrderStatus, order.ID)
		val := fmt.Sprintf(`{"status":%q,"total_cents":%d}`, order.Status, order.TotalCents)
		_ = s.Redis.Set(ctx, key, val, redisx.TTLStatusCache).Err()
	}
}
