package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Catalog        *CatalogHandler
	Cart           *CartHandler
	Auth           *AuthHandler
	Logger         *zap.Logger
	RequestTimeout time.Duration
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Catalog.List)
			r.Get("/{id}", cfg.Catalog.Get)
			r.Get("/{id}/reviews", cfg.Catalog.Reviews)
		})
		r.Get("/categories", cfg.Catalog.Categories)
		r.Get("/categories/{slug}/products", cfg.Catalog.CategoryProducts)
		r.Get("/search", cfg.Catalog.Search)
		r.Get("/deals", cfg.Catalog.Deals)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Delete("/", cfg.Cart.ClearCart)
			r.Post("/items", cfg.Cart.AddItem)
			r.Put("/items/{product_id}", cfg.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cfg.Cart.RemoveItem)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signin", cfg.Auth.SignIn)
			r.Post("/signup", cfg.Auth.SignUp)
			r.Post("/signout", cfg.Auth.SignOut)
			r.Get("/me", cfg.Auth.Me)
		})
	})

	return otelhttp.NewHandler(r, "storefront")
}
