package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baskoroadi/go-market-checkout/internal/catalog"
	"github.com/baskoroadi/go-market-checkout/internal/identity"
)

type CatalogHandler struct {
	Repo     *catalog.Repo
	Svc      *catalog.Service
	Sessions *identity.SessionStore
}

type AddProductReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageFormat string  `json:"image_format"`
	ImageSizeMB float64 `json:"image_size_mb"`
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.addProduct)
	r.Patch("/products/{id}/stock", h.adjustStock)
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Repo.ListAvailable(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *CatalogHandler) addProduct(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, identity.ErrNoSession)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	actor, err := h.Sessions.Actor(ctx, token)
	if err != nil {
		writeError(w, err)
		return
	}
	if actor.Role != identity.RoleSeller {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "seller role required"})
		return
	}

	var req AddProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	id, err := h.Svc.AddProduct(ctx, actor.UserID, catalog.AddProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageFormat: req.ImageFormat,
		ImageSizeMB: req.ImageSizeMB,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"product_id": id})
}

type AdjustStockReq struct {
	Delta int `json:"delta"`
}

// adjustStock applies a restock/correction delta, clamped at zero. The
// checkout path never uses this; it relies on the conditional decrement
// inside the order transaction.
func (h *CatalogHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
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
	if actor.Role != identity.RoleSeller {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "seller role required"})
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product id"})
		return
	}

	var req AdjustStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	stock, err := h.Repo.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"stock": stock})
}
