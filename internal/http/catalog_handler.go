package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CatalogHandler struct {
	catalog catalog.Reader
}

func NewCatalogHandler(c catalog.Reader) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// ProductResponse adds the derived discount to the product record.
type ProductResponse struct {
	domain.Product
	DiscountPercent int64 `json:"discountPercent,omitempty"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Count    int               `json:"count"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CategoryResponse struct {
	domain.Category
	Slug string `json:"slug"`
}

func toProductsResponse(products []domain.Product) ProductsResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{Product: p, DiscountPercent: p.DiscountPercent()}
	}
	return ProductsResponse{Products: out, Count: len(out)}
}

// List serves the whole catalog, or the home page rails with ?featured=true
// and ?deals=true.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("featured") == "true":
		respondJSON(w, http.StatusOK, toProductsResponse(h.catalog.Featured()))
	case q.Get("deals") == "true":
		respondJSON(w, http.StatusOK, toProductsResponse(h.catalog.DealProducts()))
	default:
		respondJSON(w, http.StatusOK, toProductsResponse(h.catalog.Products()))
	}
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	p, err := h.catalog.Product(id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, ProductResponse{Product: p, DiscountPercent: p.DiscountPercent()})
}

func (h *CatalogHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	id, ok := productIDParam(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}
	if _, err := h.catalog.Product(id); err != nil {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string][]domain.Review{"reviews": h.catalog.Reviews(id)})
}

func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.catalog.Categories()
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = CategoryResponse{Category: c, Slug: c.Slug()}
	}
	respondJSON(w, http.StatusOK, CategoriesResponse{Categories: out})
}

func (h *CatalogHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := catalog.Filter{
		CategorySlug: chi.URLParam(r, "slug"),
		Sort:         catalog.SortMode(q.Get("sort")),
	}

	var err error
	if filter.MinPrice, err = decimalParam(q.Get("min_price")); err != nil || filter.MinPrice.IsNegative() {
		respondError(w, http.StatusBadRequest, "invalid_price", "min_price must be a non-negative number")
		return
	}
	if v := q.Get("max_price"); v != "" {
		maxPrice, err := decimal.NewFromString(v)
		if err != nil || maxPrice.IsNegative() {
			respondError(w, http.StatusBadRequest, "invalid_price", "max_price must be a non-negative number")
			return
		}
		if maxPrice.LessThan(filter.MinPrice) {
			respondError(w, http.StatusBadRequest, "invalid_price", "max_price must not be below min_price")
			return
		}
		filter.MaxPrice = decimal.NewNullDecimal(maxPrice)
	}
	if v := q.Get("min_rating"); v != "" {
		if filter.MinRating, err = strconv.ParseFloat(v, 64); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_rating", "min_rating must be a number")
			return
		}
	}

	respondJSON(w, http.StatusOK, toProductsResponse(h.catalog.Browse(filter)))
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	results := h.catalog.Search(q.Get("q"), catalog.SortMode(q.Get("sort")))
	respondJSON(w, http.StatusOK, toProductsResponse(results))
}

func (h *CatalogHandler) Deals(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]domain.Deal{"deals": h.catalog.Deals()})
}

func decimalParam(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}
