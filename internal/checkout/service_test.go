package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baskoroadi/go-market-checkout/internal/cart"
	"github.com/baskoroadi/go-market-checkout/internal/catalog"
	"github.com/baskoroadi/go-market-checkout/internal/identity"
	"github.com/baskoroadi/go-market-checkout/internal/payment"
)

// fakeInventory backs both the cart's live-stock checks and the commit
// unit's conditional decrement.
type fakeInventory struct {
	mu       sync.Mutex
	products map[int64]*catalog.Product
}

func (f *fakeInventory) GetProduct(_ context.Context, id int64) (*catalog.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeInventory) stock(id int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

// fakeOrderStore mimics FinalizeOrder's all-or-nothing semantics: the
// conditional decrement is checked for every line before anything is
// applied, and an induced failure applies nothing.
type fakeOrderStore struct {
	inv       *fakeInventory
	failFinal error // returned after the order insert "succeeded", before decrements
	mu        sync.Mutex
	orders    []Order
}

func (f *fakeOrderStore) FinalizeOrder(_ context.Context, order *Order, lines []cart.Line) error {
	f.inv.mu.Lock()
	defer f.inv.mu.Unlock()

	for _, ln := range lines {
		p, ok := f.inv.products[ln.ProductID]
		if !ok || p.Stock < ln.Qty {
			return fmt.Errorf("product %d: %w", ln.ProductID, ErrOutOfStock)
		}
	}
	if f.failFinal != nil {
		return f.failFinal
	}
	for _, ln := range lines {
		f.inv.products[ln.ProductID].Stock -= ln.Qty
	}

	f.mu.Lock()
	f.orders = append(f.orders, *order)
	f.mu.Unlock()
	return nil
}

func (f *fakeOrderStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

type fakeGateway struct {
	outcome payment.Outcome

	mu      sync.Mutex
	calls   int
	amounts []int64
}

func (g *fakeGateway) Authorize(_ context.Context, amountCents int64, _ string) (payment.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.amounts = append(g.amounts, amountCents)
	return g.outcome, nil
}

type fixture struct {
	inv   *fakeInventory
	carts *cart.Service
	store *fakeOrderStore
	gw    *fakeGateway
	svc   *Service
}

func newFixture(authorized bool) *fixture {
	inv := &fakeInventory{products: map[int64]*catalog.Product{
		1: {ID: 1, Name: "Cotton Tee", PriceCents: 1950, Stock: 50},
		2: {ID: 2, Name: "Leather Jacket", PriceCents: 19999, Stock: 5},
		3: {ID: 3, Name: "Blue Denim", PriceCents: 4999, Stock: 1},
	}}
	store := &fakeOrderStore{inv: inv}
	outcome := payment.Outcome{Status: payment.StatusAuthorized, Reference: "PAY-REF-1"}
	if !authorized {
		outcome = payment.Outcome{Status: payment.StatusDeclined, Reason: "payment declined: CVV check failed"}
	}
	gw := &fakeGateway{outcome: outcome}
	carts := cart.NewService(inv)
	return &fixture{
		inv:   inv,
		carts: carts,
		store: store,
		gw:    gw,
		svc:   &Service{Carts: carts, Products: inv, Orders: store, Gateway: gw},
	}
}

func buyer(session string) Actor {
	return Actor{SessionID: session, UserID: "B007", Role: identity.RoleBuyer}
}

func TestPlaceOrderSuccess(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 1, 2)) // 2 x 19.50

	receipt, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-approved")
	require.NoError(t, err)
	assert.Equal(t, int64(3900), receipt.TotalCents)
	assert.Equal(t, 48, f.inv.stock(1), "stock reduced by purchased quantity")
	assert.Empty(t, f.carts.Snapshot("s1"), "cart cleared after commit")

	require.Equal(t, 1, f.store.count())
	order := f.store.orders[0]
	assert.Equal(t, receipt.OrderID, order.ID)
	assert.Equal(t, "B007", order.BuyerID)
	assert.Equal(t, OrderPending, order.Status)
	assert.Equal(t, "PAY-REF-1", order.PaymentRef)
	assert.Equal(t, []int64{3900}, f.gw.amounts, "gateway charged the recomputed total")
}

func TestPlaceOrderDeclinedLeavesEverything(t *testing.T) {
	f := newFixture(false)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 2, 1)) // 199.99

	_, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-declined")

	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)
	assert.Contains(t, paymentErr.Reason, "CVV check failed")
	assert.Equal(t, 5, f.inv.stock(2), "stock untouched")
	assert.Equal(t, []cart.Line{{ProductID: 2, Qty: 1}}, f.carts.Snapshot("s1"), "cart preserved for retry")
	assert.Zero(t, f.store.count(), "no order without payment")
}

func TestPlaceOrderGatewayError(t *testing.T) {
	f := newFixture(true)
	f.gw.outcome = payment.Outcome{Status: payment.StatusGatewayError, Reason: "network/API error: timeout"}
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 1, 1))

	_, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-approved")

	var gwErr *GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Zero(t, f.store.count())
	assert.Len(t, f.carts.Snapshot("s1"), 1)
}

func TestPlaceOrderPendingIsNotSuccess(t *testing.T) {
	f := newFixture(true)
	f.gw.outcome = payment.Outcome{Status: payment.StatusPending, Reason: "payment status: APPROVED"}
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 1, 1))

	_, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-approved")

	var paymentErr *PaymentError
	require.ErrorAs(t, err, &paymentErr)
	assert.Zero(t, f.store.count())
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(true)

	_, err := f.svc.PlaceOrder(context.Background(), buyer("s1"), "card-approved")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.gw.calls, "no gateway call for an empty cart")
}

func TestPlaceOrderUnauthorized(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 1, 1))

	for _, actor := range []Actor{
		{SessionID: "s1", UserID: "S999", Role: identity.RoleSeller},
		{SessionID: "s1", Role: identity.RoleBuyer},
		{},
	} {
		_, err := f.svc.PlaceOrder(ctx, actor, "card-approved")
		assert.ErrorIs(t, err, ErrUnauthorized)
	}
	assert.Zero(t, f.gw.calls)
}

func TestPlaceOrderSkipsVanishedProduct(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 1, 2))
	require.NoError(t, f.carts.Add(ctx, "s1", 2, 1))

	// product 2 disappears between add-to-cart and checkout
	f.inv.mu.Lock()
	delete(f.inv.products, 2)
	f.inv.mu.Unlock()

	receipt, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-approved")
	require.NoError(t, err)
	assert.Equal(t, int64(3900), receipt.TotalCents, "total from resolvable lines only")
	assert.Equal(t, 48, f.inv.stock(1))
}

func TestPlaceOrderZeroTotalWhenAllLinesVanish(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 1, 1))

	f.inv.mu.Lock()
	delete(f.inv.products, 1)
	f.inv.mu.Unlock()

	_, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-approved")
	assert.ErrorIs(t, err, ErrZeroTotal)
	assert.Zero(t, f.gw.calls)
}

func TestPlaceOrderCommitFailureRollsBack(t *testing.T) {
	f := newFixture(true)
	f.store.failFinal = errors.New("connection reset during decrement")
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "s1", 1, 2))

	_, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-approved")

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Zero(t, f.store.count(), "no order survives an interrupted commit unit")
	assert.Equal(t, 50, f.inv.stock(1), "no partial decrement survives")
	assert.Len(t, f.carts.Snapshot("s1"), 1, "cart preserved so the attempt can be repeated")
}

func TestPlaceOrderTotalIndependentOfLineOrder(t *testing.T) {
	ctx := context.Background()
	want := int64(2*1950 + 1*19999)

	for _, order := range [][]int64{{1, 2}, {2, 1}} {
		f := newFixture(true)
		for _, id := range order {
			qty := 2
			if id == 2 {
				qty = 1
			}
			require.NoError(t, f.carts.Add(ctx, "s1", id, qty))
		}
		receipt, err := f.svc.PlaceOrder(ctx, buyer("s1"), "card-approved")
		require.NoError(t, err)
		assert.Equal(t, want, receipt.TotalCents)
	}
}

// Two sessions race for the last unit of a stock-1 product: exactly one
// order commits, the loser fails with the out-of-stock class, and stock
// lands on zero.
func TestConcurrentCheckoutLastUnit(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	require.NoError(t, f.carts.Add(ctx, "a", 3, 1))
	require.NoError(t, f.carts.Add(ctx, "b", 3, 1))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, session := range []string{"a", "b"} {
		wg.Add(1)
		go func(i int, session string) {
			defer wg.Done()
			actor := Actor{SessionID: session, UserID: "B00" + session, Role: identity.RoleBuyer}
			_, errs[i] = f.svc.PlaceOrder(ctx, actor, "card-approved")
		}(i, session)
	}
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrOutOfStock):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Equal(t, 0, f.inv.stock(3))
	assert.Equal(t, 1, f.store.count())
}

// Committed decrements across many concurrent attempts never exceed the
// starting stock, and stock never goes negative.
func TestStockInvariantUnderContention(t *testing.T) {
	f := newFixture(true)
	ctx := context.Background()
	const start = 5

	sessions := make([]string, 10)
	for i := range sessions {
		sessions[i] = fmt.Sprintf("s%d", i)
		require.NoError(t, f.carts.Add(ctx, sessions[i], 2, 2))
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var wins int
	for _, session := range sessions {
		wg.Add(1)
		go func(session string) {
			defer wg.Done()
			actor := Actor{SessionID: session, UserID: "B-" + session, Role: identity.RoleBuyer}
			if _, err := f.svc.PlaceOrder(ctx, actor, "card-approved"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(session)
	}
	wg.Wait()

	final := f.inv.stock(2)
	assert.GreaterOrEqual(t, final, 0)
	assert.Equal(t, start-2*wins, final, "every committed order decremented exactly its quantity")
	assert.LessOrEqual(t, 2*wins, start, "committed decrements never exceed starting stock")
	assert.Equal(t, wins, f.store.count())
}
