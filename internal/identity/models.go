package identity

import "errors"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSellerPending      = errors.New("seller account pending admin approval")
	ErrSellerNotApproved  = errors.New("seller account invalid or unapproved")
	ErrUnsupportedRole    = errors.New("account role is unsupported")
	ErrNoSession          = errors.New("no active session")
)
