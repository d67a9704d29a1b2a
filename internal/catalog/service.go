package catalog

import (
	"context"
	"math"
	"strings"
)

var validImageFormats = map[string]bool{"PNG": true, "JPG": true, "JPEG": true}

type Inserter interface {
	InsertProduct(ctx context.Context, p *Product) (int64, error)
}

type SellerDirectory interface {
	SellerStatus(ctx context.Context, sellerID string) (SellerStatus, error)
}

// Service validates and creates seller products. Price arrives as a
// decimal amount and is stored in cents; image format is normalized to
// uppercase.
type Service struct {
	Store   Inserter
	Sellers SellerDirectory
}

type AddProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	ImageFormat string
	ImageSizeMB float64
}

func (s *Service) AddProduct(ctx context.Context, sellerID string, in AddProductInput) (int64, error) {
	status, err := s.Sellers.SellerStatus(ctx, sellerID)
	if err != nil {
		return 0, err
	}
	if status != SellerApproved {
		return 0, ErrSellerNotApproved
	}

	if strings.TrimSpace(in.Name) == "" {
		return 0, ErrMissingFields
	}
	if in.Price <= 0 {
		return 0, ErrInvalidPrice
	}
	if in.Stock < 0 {
		return 0, ErrInvalidStock
	}
	format := strings.ToUpper(in.ImageFormat)
	if !validImageFormats[format] {
		return 0, ErrBadImageFormat
	}
	if in.ImageSizeMB > 5 {
		return 0, ErrImageTooLarge
	}

	p := &Product{
		SellerID:    sellerID,
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  int64(math.Round(in.Price * 100)),
		Stock:       in.Stock,
		ImageFormat: format,
	}
	return s.Store.InsertProduct(ctx, p)
}
