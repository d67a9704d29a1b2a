package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baskoroadi/go-market-checkout/internal/catalog"
)

type fakeUsers struct {
	users    map[string]Identity // email -> identity, password always "passw123"
	statuses map[string]catalog.SellerStatus
}

func (f *fakeUsers) GetUserByCredentials(_ context.Context, email, password string) (Identity, error) {
	ident, ok := f.users[email]
	if !ok || password != "passw123" {
		return Identity{}, ErrInvalidCredentials
	}
	return ident, nil
}

func (f *fakeUsers) SellerStatus(_ context.Context, sellerID string) (catalog.SellerStatus, error) {
	if s, ok := f.statuses[sellerID]; ok {
		return s, nil
	}
	return catalog.SellerUnknown, nil
}

func newService() *Service {
	return &Service{Users: &fakeUsers{
		users: map[string]Identity{
			"buyer@example.com":   {UserID: "B007", Role: RoleBuyer},
			"seller@approved.com": {UserID: "S999", Role: RoleSeller},
			"seller@pending.com":  {UserID: "S001", Role: RoleSeller},
			"seller@ghost.com":    {UserID: "S404", Role: RoleSeller},
			"admin@example.com":   {UserID: "A001", Role: "admin"},
		},
		statuses: map[string]catalog.SellerStatus{
			"S999": catalog.SellerApproved,
			"S001": catalog.SellerPending,
		},
	}}
}

func TestAuthenticateBuyer(t *testing.T) {
	svc := newService()

	ident, err := svc.Authenticate(context.Background(), "buyer@example.com", "passw123")
	require.NoError(t, err)
	assert.Equal(t, Identity{UserID: "B007", Role: RoleBuyer}, ident)
}

func TestAuthenticateBadCredentials(t *testing.T) {
	svc := newService()

	_, err := svc.Authenticate(context.Background(), "buyer@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(context.Background(), "nobody@example.com", "passw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticateSeller(t *testing.T) {
	svc := newService()

	ident, err := svc.Authenticate(context.Background(), "seller@approved.com", "passw123")
	require.NoError(t, err)
	assert.Equal(t, "S999", ident.UserID)

	_, err = svc.Authenticate(context.Background(), "seller@pending.com", "passw123")
	assert.ErrorIs(t, err, ErrSellerPending)

	_, err = svc.Authenticate(context.Background(), "seller@ghost.com", "passw123")
	assert.ErrorIs(t, err, ErrSellerNotApproved)
}

func TestAuthenticateUnsupportedRole(t *testing.T) {
	svc := newService()

	_, err := svc.Authenticate(context.Background(), "admin@example.com", "passw123")
	assert.ErrorIs(t, err, ErrUnsupportedRole)
}
