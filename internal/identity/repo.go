package identity

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/baskoroadi/go-market-checkout/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

// GetUserByCredentials resolves email+password to an identity. Password
// hashing/verification design is out of scope here; the stored hash is
// compared as an opaque value.
func (r *Repo) GetUserByCredentials(ctx context.Context, email, password string) (Identity, error) {
	var ident Identity
	err := r.DB.QueryRow(ctx,
		`SELECT user_id, role FROM users WHERE email=$1 AND password_hash=$2`,
		email, password,
	).Scan(&ident.UserID, &ident.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return Identity{}, err
	}
	return ident, nil
}

// SellerStatus reports approved/pending, or unknown when the seller row
// does not exist.
func (r *Repo) SellerStatus(ctx context.Context, sellerID string) (catalog.SellerStatus, error) {
	var status catalog.SellerStatus
	err := r.DB.QueryRow(ctx, `SELECT status FROM sellers WHERE id=$1`, sellerID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.SellerUnknown, nil
	}
	if err != nil {
		return catalog.SellerUnknown, err
	}
	return status, nil
}
