package identity

import (
	"context"

	"github.com/baskoroadi/go-market-checkout/internal/catalog"
)

type UserStore interface {
	GetUserByCredentials(ctx context.Context, email, password string) (Identity, error)
	SellerStatus(ctx context.Context, sellerID string) (catalog.SellerStatus, error)
}

type Service struct {
	Users UserStore
}

// Authenticate resolves credentials to an identity. Sellers must be
// approved to log in at all; a pending seller is told so explicitly
// instead of getting a generic rejection.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	ident, err := s.Users.GetUserByCredentials(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}

	switch ident.Role {
	case RoleBuyer:
		return ident, nil
	case RoleSeller:
		status, err := s.Users.SellerStatus(ctx, ident.UserID)
		if err != nil {
			return Identity{}, err
		}
		switch status {
		case catalog.SellerApproved:
			return ident, nil
		case catalog.SellerPending:
			return Identity{}, ErrSellerPending
		default:
			return Identity{}, ErrSellerNotApproved
		}
	default:
		return Identity{}, ErrUnsupportedRole
	}
}
