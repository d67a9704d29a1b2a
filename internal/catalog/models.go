package catalog

import "time"

type Product struct {
	ID          int64     `json:"id"`
	SellerID    string    `json:"seller_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	PriceCents  int64     `json:"price_cents"`
	Stock       int       `json:"stock"`
	ImageFormat string    `json:"image_format,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SellerStatus string

const (
	SellerApproved SellerStatus = "approved"
	SellerPending  SellerStatus = "pending"
	SellerUnknown  SellerStatus = "unknown"
)

type Seller struct {
	ID     string
	Name   string
	Status SellerStatus
}
