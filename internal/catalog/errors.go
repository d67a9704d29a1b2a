package catalog

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrMissingFields     = errors.New("name, price and stock are required")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStock      = errors.New("stock must be non-negative")
	ErrBadImageFormat    = errors.New("only PNG/JPG/JPEG formats allowed")
	ErrImageTooLarge     = errors.New("image size must be under 5MB")
	ErrSellerNotApproved = errors.New("seller is not approved")
)
