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

type AuthHandler struct {
	Auth     *identity.Service
	Sessions *identity.SessionStore
	Carts    *cart.Service
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResp struct {
	Token  string        `json:"token"`
	UserID string        `json:"user_id"`
	Role   identity.Role `json:"role"`
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ident, err := h.Auth.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.Sessions.Start(ctx, ident)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResp{Token: token, UserID: ident.UserID, Role: ident.Role})
}

// logout ends the session and drops the session's cart with it.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, identity.ErrNoSession)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Sessions.End(ctx, token); err != nil {
		writeError(w, err)
		return
	}
	h.Carts.Clear(token)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
