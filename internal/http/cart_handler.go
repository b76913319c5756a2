package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const maxQuantity = 99

// CartEngine is the part of cart.Engine the handlers use.
type CartEngine interface {
	AddN(ctx context.Context, p domain.Product, n int) domain.Cart
	Remove(ctx context.Context, productID int64) domain.Cart
	UpdateQuantity(ctx context.Context, productID int64, quantity int) domain.Cart
	Clear(ctx context.Context) domain.Cart
	Summary(taxRate decimal.Decimal) cart.Summary
}

type CartHandler struct {
	engine  CartEngine
	catalog catalog.Reader
	taxRate decimal.Decimal
}

func NewCartHandler(engine CartEngine, c catalog.Reader, taxRate decimal.Decimal) *CartHandler {
	return &CartHandler{
		engine:  engine,
		catalog: c,
		taxRate: taxRate,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"productId"`
	Quantity  *int  `json:"quantity,omitempty"`
}

type UpdateQuantityRequestDTO struct {
	Quantity *int `json:"quantity"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Summary(h.taxRate))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "productId must be positive")
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity <= 0 || quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	p, err := h.catalog.Product(req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	c := h.engine.AddN(r.Context(), p, quantity)
	respondJSON(w, http.StatusCreated, cart.Summarize(c, h.taxRate))
}

// UpdateQuantity sets the line quantity. Zero removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r, "product_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if *req.Quantity < 0 || *req.Quantity > maxQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	c := h.engine.UpdateQuantity(r.Context(), productID, *req.Quantity)
	respondJSON(w, http.StatusOK, cart.Summarize(c, h.taxRate))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(r, "product_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	c := h.engine.Remove(r.Context(), productID)
	respondJSON(w, http.StatusOK, cart.Summarize(c, h.taxRate))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c := h.engine.Clear(r.Context())
	respondJSON(w, http.StatusOK, cart.Summarize(c, h.taxRate))
}
