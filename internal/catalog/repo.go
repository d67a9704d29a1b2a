package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, seller_id, name, COALESCE(description,''), price_cents, stock,
		       COALESCE(image_format,''), created_at, updated_at
		FROM products WHERE id=$1`, id).Scan(
		&p.ID, &p.SellerID, &p.Name, &p.Description, &p.PriceCents, &p.Stock,
		&p.ImageFormat, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAvailable returns products with stock left, newest first (ids are
// serial, so descending id == most recently added).
func (r *Repo) ListAvailable(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, seller_id, name, COALESCE(description,''), price_cents, stock,
		       COALESCE(image_format,''), created_at, updated_at
		FROM products WHERE stock > 0 ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.PriceCents,
			&p.Stock, &p.ImageFormat, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) InsertProduct(ctx context.Context, p *Product) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(seller_id, name, description, price_cents, stock, image_format)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		p.SellerID, p.Name, p.Description, p.PriceCents, p.Stock, p.ImageFormat,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// AdjustStock applies a delta and clamps the result at zero. This is for
// restocks and corrections; it cannot guard against oversell under
// concurrent checkouts - the commit path uses a conditional decrement
// instead.
func (r *Repo) AdjustStock(ctx context.Context, id int64, delta int) (int, error) {
	var stock int
	err := r.DB.QueryRow(ctx, `
		UPDATE products SET stock = GREATEST(0, stock + $2), updated_at = now()
		WHERE id=$1 RETURNING stock`, id, delta).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, err
	}
	return stock, nil
}
