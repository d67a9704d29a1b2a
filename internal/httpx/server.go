package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/baskoroadi/go-market-checkout/internal/cart"
	"github.com/baskoroadi/go-market-checkout/internal/catalog"
	"github.com/baskoroadi/go-market-checkout/internal/checkout"
	"github.com/baskoroadi/go-market-checkout/internal/identity"
	"github.com/baskoroadi/go-market-checkout/internal/payment"
)

func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP statuses so every
// failure kind stays distinguishable at the surface.
func writeError(w http.ResponseWriter, err error) {
	var paymentErr *checkout.PaymentError
	var gatewayErr *checkout.GatewayError
	var storageErr *checkout.StorageError

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, identity.ErrNoSession),
		errors.Is(err, identity.ErrInvalidCredentials),
		errors.Is(err, checkout.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, identity.ErrSellerPending),
		errors.Is(err, identity.ErrSellerNotApproved),
		errors.Is(err, catalog.ErrSellerNotApproved):
		code = http.StatusForbidden
	case errors.Is(err, catalog.ErrProductNotFound):
		code = http.StatusNotFound
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrZeroTotal),
		errors.Is(err, payment.ErrUnknownInstrument),
		errors.Is(err, catalog.ErrMissingFields),
		errors.Is(err, catalog.ErrInvalidPrice),
		errors.Is(err, catalog.ErrInvalidStock),
		errors.Is(err, catalog.ErrBadImageFormat),
		errors.Is(err, catalog.ErrImageTooLarge):
		code = http.StatusBadRequest
	case errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, checkout.ErrOutOfStock):
		code = http.StatusConflict
	case errors.As(err, &paymentErr), errors.As(err, &gatewayErr):
		code = http.StatusPaymentRequired
	case errors.As(err, &storageErr):
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
