package cart

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/baskoroadi/go-market-checkout/internal/catalog"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Line struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

type ProductReader interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

// Service keeps one cart per session, in memory only. Carts are created
// on first use, cleared on logout and on successful checkout, and are
// never persisted.
type Service struct {
	products ProductReader

	mu    sync.Mutex
	carts map[string]map[int64]int
}

func NewService(products ProductReader) *Service {
	return &Service{
		products: products,
		carts:    make(map[string]map[int64]int),
	}
}

// Add validates the requested quantity against live stock before touching
// the cart: the new cart quantity (existing + requested) must not exceed
// what the store has right now. Stock is re-checked again at checkout.
func (s *Service) Add(ctx context.Context, sessionID string, productID int64, qty int) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[sessionID]
	if lines == nil {
		lines = make(map[int64]int)
		s.carts[sessionID] = lines
	}
	inCart := lines[productID]
	if inCart+qty > product.Stock {
		return fmt.Errorf("%w: available %d, already in cart %d", ErrInsufficientStock, product.Stock, inCart)
	}
	lines[productID] = inCart + qty
	return nil
}

// Snapshot returns the cart lines ordered by product id. Read-only.
func (s *Service) Snapshot(sessionID string) []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]Line, 0, len(s.carts[sessionID]))
	for id, qty := range s.carts[sessionID] {
		lines = append(lines, Line{ProductID: id, Qty: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines
}

func (s *Service) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}
