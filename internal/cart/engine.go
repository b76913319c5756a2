package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/fjod/storefront/internal/kv"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Engine owns the cart of the single session. Every transition is written
// through to the store; write failures are logged and the in-memory state
// stands.
type Engine struct {
	mu     sync.Mutex
	cart   domain.Cart
	store  kv.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
	sfg    singleflight.Group // collapses concurrent Init calls
}

type Option func(*Engine)

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func NewEngine(store kv.Store, opts ...Option) *Engine {
	e := &Engine{
		cart:   domain.Cart{Items: []domain.CartItem{}},
		store:  store,
		logger: zap.NewNop(),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Init restores the persisted cart. A missing, unreadable or corrupt
// document leaves the cart empty.
func (e *Engine) Init(ctx context.Context) {
	v, _, _ := e.sfg.Do(kv.CartKey, func() (interface{}, error) {
		return e.load(ctx), nil
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	e.cart = v.(domain.Cart)
}

func (e *Engine) load(ctx context.Context) domain.Cart {
	empty := domain.Cart{Items: []domain.CartItem{}}

	raw, err := e.store.Get(ctx, kv.CartKey)
	if errors.Is(err, kv.ErrNotFound) {
		return empty
	}
	if err != nil {
		e.logger.Warn("cart load failed, starting empty", zap.Error(err))
		return empty
	}

	var saved domain.Cart
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		e.logger.Warn("cart document is corrupt, starting empty", zap.Error(err))
		return empty
	}

	restored := e.normalize(saved)
	e.logger.Debug("cart restored", zap.Int("lines", len(restored.Items)))
	return restored
}

// normalize enforces the cart invariants on a loaded document: positive
// quantities and one line per product, first occurrence wins.
func (e *Engine) normalize(saved domain.Cart) domain.Cart {
	out := domain.Cart{Items: make([]domain.CartItem, 0, len(saved.Items))}
	for _, item := range saved.Items {
		if item.ProductID == 0 {
			item.ProductID = item.Product.ID
		}
		if item.Quantity < 1 {
			e.logger.Debug("dropping stored line with non-positive quantity", zap.Int64("product_id", item.ProductID))
			continue
		}
		if out.IndexOf(item.ProductID) >= 0 {
			e.logger.Debug("dropping duplicate stored line", zap.Int64("product_id", item.ProductID))
			continue
		}
		if item.ID == "" {
			item.ID = e.newID()
		}
		if item.AddedAt.IsZero() {
			item.AddedAt = e.now()
		}
		out.Items = append(out.Items, item)
	}
	return out
}

// Dispatch applies a and persists the result. It returns a copy of the
// new cart.
func (e *Engine) Dispatch(ctx context.Context, a Action) domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.apply(ctx, a)
	return e.cart.Clone()
}

func (e *Engine) apply(ctx context.Context, a Action) {
	e.cart = Reduce(e.cart, a, e.now(), e.newID)
	if err := e.persist(ctx, e.cart); err != nil {
		e.logger.Warn("cart persist failed, continuing in memory",
			zap.String("action", a.Kind.String()),
			zap.Error(err),
		)
	}
}

func (e *Engine) persist(ctx context.Context, c domain.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	return e.store.Set(ctx, kv.CartKey, string(data))
}

func (e *Engine) Add(ctx context.Context, p domain.Product) domain.Cart {
	return e.Dispatch(ctx, Add(p))
}

// AddN adds p n times, as the product page quantity selector does.
func (e *Engine) AddN(ctx context.Context, p domain.Product, n int) domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < n; i++ {
		e.apply(ctx, Add(p))
	}
	return e.cart.Clone()
}

func (e *Engine) Remove(ctx context.Context, productID int64) domain.Cart {
	return e.Dispatch(ctx, Remove(productID))
}

func (e *Engine) UpdateQuantity(ctx context.Context, productID int64, quantity int) domain.Cart {
	return e.Dispatch(ctx, UpdateQuantity(productID, quantity))
}

func (e *Engine) Clear(ctx context.Context) domain.Cart {
	return e.Dispatch(ctx, Clear())
}

func (e *Engine) Cart() domain.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.Clone()
}

func (e *Engine) TotalItems() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.TotalItems()
}

func (e *Engine) TotalPrice() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.TotalPrice()
}

// Summary is the order summary shown next to the cart.
type Summary struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	Subtotal   decimal.Decimal   `json:"subtotal"`
	Tax        decimal.Decimal   `json:"tax"`
	Total      decimal.Decimal   `json:"total"`
}

// Summary prices the current cart with an estimated tax.
func (e *Engine) Summary(taxRate decimal.Decimal) Summary {
	return Summarize(e.Cart(), taxRate)
}

// Summarize prices c with an estimated tax, rounded to cents.
func Summarize(c domain.Cart, taxRate decimal.Decimal) Summary {
	subtotal := c.TotalPrice()
	tax := subtotal.Mul(taxRate).Round(2)
	return Summary{
		Items:      c.Items,
		TotalItems: c.TotalItems(),
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
	}
}

// Close writes the current cart one last time.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.persist(ctx, e.cart); err != nil {
		return fmt.Errorf("flush cart: %w", err)
	}
	return nil
}
