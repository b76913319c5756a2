package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/storefront/internal/cart"
	"github.com/fjod/storefront/internal/catalog"
	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/kv"
	"github.com/fjod/storefront/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	handler  http.Handler
	engine   *cart.Engine
	sessions *session.Manager
	store    *kv.MemoryStore
}

func setupServer(t *testing.T) *testServer {
	store := kv.NewMemoryStore()
	engine := cart.NewEngine(store)
	sessions := session.NewManager(store)
	engine.Init(context.Background())
	sessions.Init(context.Background())

	c := catalog.New()
	handler := NewRouter(RouterConfig{
		Catalog:        NewCatalogHandler(c),
		Cart:           NewCartHandler(engine, c, decimal.RequireFromString("0.08")),
		Auth:           NewAuthHandler(sessions),
		Logger:         zaptest.NewLogger(t),
		RequestTimeout: 5 * time.Second,
	})
	return &testServer{handler: handler, engine: engine, sessions: sessions, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func TestHealth(t *testing.T) {
	s := setupServer(t)
	rec := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_Echoed(t *testing.T) {
	s := setupServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestProducts(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name  string
		path  string
		count int
	}{
		{"all", "/api/v1/products", 6},
		{"featured", "/api/v1/products?featured=true", 6},
		{"search", "/api/v1/search?q=headphones", 1},
		{"empty search", "/api/v1/search?q=", 0},
		{"category", "/api/v1/categories/electronics/products", 3},
		{"category price bound", "/api/v1/categories/electronics/products?max_price=300", 1},
		{"deals rail", "/api/v1/products?deals=true", 4},
		{"zero max price", "/api/v1/categories/electronics/products?max_price=0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp ProductsResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.count, resp.Count)
			assert.Len(t, resp.Products, tt.count)
		})
	}
}

func TestProduct_Get(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/products/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var p ProductResponse
	decodeBody(t, rec, &p)
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, p.Product.DiscountPercent(), p.DiscountPercent)

	rec = s.do(t, http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProduct_Reviews(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/products/1/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string][]domain.Review
	decodeBody(t, rec, &resp)
	assert.Len(t, resp["reviews"], 2)

	rec = s.do(t, http.MethodGet, "/api/v1/products/6/reviews", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"reviews":[]}`, rec.Body.String())
}

func TestCategories(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp CategoriesResponse
	decodeBody(t, rec, &resp)
	require.Len(t, resp.Categories, 8)
	assert.Equal(t, "electronics", resp.Categories[0].Slug)
}

func TestCategoryProducts_InvalidBounds(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"negative min", "min_price=-1"},
		{"negative max", "max_price=-5"},
		{"max below min", "min_price=100&max_price=50"},
		{"not a number", "max_price=cheap"},
		{"bad rating", "min_rating=high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/categories/electronics/products?"+tt.query, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			decodeBody(t, rec, &resp)
			assert.NotEmpty(t, resp.Code)
		})
	}
}

func TestCart_AddUpdateRemove(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]int64{"productId": 1})
	require.Equal(t, http.StatusCreated, rec.Code)
	var summary cart.Summary
	decodeBody(t, rec, &summary)
	assert.Equal(t, 1, summary.TotalItems)

	rec = s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]int64{"productId": 1, "quantity": 2})
	require.Equal(t, http.StatusCreated, rec.Code)
	decodeBody(t, rec, &summary)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)

	rec = s.do(t, http.MethodPut, "/api/v1/cart/items/1", map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, s.engine.TotalItems())

	rec = s.do(t, http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, s.engine.TotalItems())
}

func TestCart_UpdateToZeroRemoves(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]int64{"productId": 2})

	rec := s.do(t, http.MethodPut, "/api/v1/cart/items/2", map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.engine.Cart().Items)
}

func TestCart_GetSummary(t *testing.T) {
	s := setupServer(t)
	p, err := catalog.New().Product(1)
	require.NoError(t, err)
	s.engine.AddN(context.Background(), p, 2)

	rec := s.do(t, http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary cart.Summary
	decodeBody(t, rec, &summary)
	subtotal := p.Price.Mul(decimal.NewFromInt(2))
	tax := subtotal.Mul(decimal.RequireFromString("0.08")).Round(2)
	assert.True(t, subtotal.Equal(summary.Subtotal), "subtotal %s", summary.Subtotal)
	assert.True(t, tax.Equal(summary.Tax), "tax %s", summary.Tax)
	assert.True(t, subtotal.Add(tax).Equal(summary.Total), "total %s", summary.Total)
}

func TestCart_Clear(t *testing.T) {
	s := setupServer(t)
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]int64{"productId": 1})
	s.do(t, http.MethodPost, "/api/v1/cart/items", map[string]int64{"productId": 2})

	rec := s.do(t, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.engine.Cart().Items)

	raw, err := s.store.Get(context.Background(), kv.CartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, raw)
}

func TestCart_InvalidRequests(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"bad json", http.MethodPost, "/api/v1/cart/items", "{", http.StatusBadRequest, "invalid_request"},
		{"missing product", http.MethodPost, "/api/v1/cart/items", map[string]int{"quantity": 1}, http.StatusBadRequest, "invalid_product_id"},
		{"quantity too large", http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 1, "quantity": 100}, http.StatusBadRequest, "invalid_quantity"},
		{"quantity zero", http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 1, "quantity": 0}, http.StatusBadRequest, "invalid_quantity"},
		{"unknown product", http.MethodPost, "/api/v1/cart/items", map[string]int{"productId": 999}, http.StatusNotFound, "not_found"},
		{"bad path id", http.MethodPut, "/api/v1/cart/items/x", map[string]int{"quantity": 1}, http.StatusBadRequest, "invalid_product_id"},
		{"missing quantity", http.MethodPut, "/api/v1/cart/items/1", map[string]int{}, http.StatusBadRequest, "invalid_request"},
		{"negative quantity", http.MethodPut, "/api/v1/cart/items/1", map[string]int{"quantity": -1}, http.StatusBadRequest, "invalid_quantity"},
		{"bad delete id", http.MethodDelete, "/api/v1/cart/items/0", nil, http.StatusBadRequest, "invalid_product_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code)

			var resp ErrorResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
	assert.Zero(t, s.engine.TotalItems())
}

func TestAuth_SignInAndOut(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/signin", SignInRequestDTO{Email: "demo@amazon.com", Password: "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	var user domain.UserSession
	decodeBody(t, rec, &user)
	assert.Equal(t, "demo", user.Name)
	assert.True(t, user.IsSignedIn)

	rec = s.do(t, http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/auth/signout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, s.sessions.IsAuthenticated())
}

func TestAuth_SignUp(t *testing.T) {
	s := setupServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", SignUpRequestDTO{
		Name: "Ann", Email: "ann@example.com", Password: "secret1", ConfirmPassword: "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	current, ok := s.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "Ann", current.Name)
}

func TestAuth_Validation(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name string
		path string
		body interface{}
		code string
	}{
		{"signin bad json", "/api/v1/auth/signin", "{", "invalid_request"},
		{"signin missing email", "/api/v1/auth/signin", SignInRequestDTO{Password: "x"}, "invalid_email"},
		{"signin missing password", "/api/v1/auth/signin", SignInRequestDTO{Email: "a@b.c"}, "invalid_password"},
		{"signup missing name", "/api/v1/auth/signup", SignUpRequestDTO{Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret1"}, "invalid_name"},
		{"signup bad email", "/api/v1/auth/signup", SignUpRequestDTO{Name: "A", Email: "nope", Password: "secret1", ConfirmPassword: "secret1"}, "invalid_email"},
		{"signup short password", "/api/v1/auth/signup", SignUpRequestDTO{Name: "A", Email: "a@b.c", Password: "12345", ConfirmPassword: "12345"}, "invalid_password"},
		{"signup mismatch", "/api/v1/auth/signup", SignUpRequestDTO{Name: "A", Email: "a@b.c", Password: "secret1", ConfirmPassword: "secret2"}, "password_mismatch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, tt.path, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp ErrorResponse
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
	assert.False(t, s.sessions.IsAuthenticated())
}
