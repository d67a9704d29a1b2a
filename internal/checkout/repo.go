package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baskoroadi/go-market-checkout/internal/cart"
)

type OrderRepo struct{ DB *pgxpool.Pool }

// FinalizeOrder is the commit unit: insert the order row and decrement
// stock for every line inside one transaction. Each decrement is
// conditional (stock >= qty); if any line cannot be satisfied the whole
// unit rolls back, so no other checkout ever observes an order without
// its stock adjustment or a partial adjustment.
func (r *OrderRepo) FinalizeOrder(ctx context.Context, order *Order, lines []cart.Line) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, buyer_id, total_cents, status, payment_ref, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		order.ID, order.BuyerID, order.TotalCents, order.Status, order.PaymentRef, order.CreatedAt,
	)
	if err != nil {
		return err
	}

	for _, ln := range lines {
		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $2, updated_at = now()
			WHERE id = $1 AND stock >= $2`, ln.ProductID, ln.Qty)
		if err != nil {
			return err
		}
		if ct.RowsAffected() != 1 {
			return fmt.Errorf("product %d: %w", ln.ProductID, ErrOutOfStock)
		}
	}

	return tx.Commit(ctx)
}

func (r *OrderRepo) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := r.DB.QueryRow(ctx, `
		SELECT id, buyer_id, total_cents, status, payment_ref, created_at
		FROM orders WHERE id=$1`, id).Scan(
		&o.ID, &o.BuyerID, &o.TotalCents, &o.Status, &o.PaymentRef, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
