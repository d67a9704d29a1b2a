package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baskoroadi/go-market-checkout/internal/cart"
	"github.com/baskoroadi/go-market-checkout/internal/identity"
)

type CartHandler struct {
	Carts    *cart.Service
	Sessions *identity.SessionStore
}

type AddToCartReq struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Post("/cart", h.addToCart)
	r.Get("/cart", h.viewCart)
}

func (h *CartHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, identity.ErrNoSession)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	actor, err := h.Sessions.Actor(ctx, token)
	if err != nil {
		writeError(w, err)
		return
	}
	if actor.Role != identity.RoleBuyer {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "buyer role required"})
		return
	}

	var req AddToCartReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	if err := h.Carts.Add(ctx, token, req.ProductID, req.Qty); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": h.Carts.Snapshot(token)})
}

func (h *CartHandler) viewCart(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, identity.ErrNoSession)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": h.Carts.Snapshot(token)})
}
