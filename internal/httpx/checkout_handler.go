package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/baskoroadi/go-market-checkout/internal/checkout"
	"github.com/baskoroadi/go-market-checkout/internal/identity"
	"github.com/baskoroadi/go-market-checkout/internal/redisx"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
	Orders   *checkout.OrderRepo
	Sessions *identity.SessionStore
	Redis    *redis.Client
}

type CheckoutReq struct {
	Instrument string `json:"instrument"`
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Post("/checkout", h.placeOrder)
	r.Get("/orders/{id}", h.getOrder)
}

func (h *CheckoutHandler) placeOrder(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, identity.ErrNoSession)
		return
	}

	// This request includes one gateway round trip, so allow it more time.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	actor, err := h.Sessions.Actor(ctx, token)
	if err != nil {
		writeError(w, err)
		return
	}

	var req CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	receipt, err := h.Checkout.PlaceOrder(ctx, checkout.Actor{
		SessionID: token,
		UserID:    actor.UserID,
		Role:      actor.Role,
	}, req.Instrument)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *CheckoutHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// cache first, DB as fallback
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	order, err := h.Orders.GetOrder(ctx, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	if order == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	body := fmt.Sprintf(`{"status":%q,"total_cents":%d}`, order.Status, order.TotalCents)
	_ = h.Redis.Set(ctx, key, body, redisx.TTLStatusCache).Err()
	writeJSON(w, http.StatusOK, json.RawMessage(body))
}
