package catalog

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/fjod/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	featuredCount     = 6
	dealProductsCount = 4
)

var ErrNotFound = errors.New("product not found")

// SortMode selects the ordering of search and browse results.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortFeatured  SortMode = "featured"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortRating    SortMode = "rating"
	SortNewest    SortMode = "newest"
)

// Reader is the read-only view of the catalog used by handlers.
type Reader interface {
	Products() []domain.Product
	Product(id int64) (domain.Product, error)
	Categories() []domain.Category
	CategoryBySlug(slug string) (domain.Category, bool)
	Reviews(productID int64) []domain.Review
	Deals() []domain.Deal
	Featured() []domain.Product
	DealProducts() []domain.Product
	Search(query string, mode SortMode) []domain.Product
	Browse(filter Filter) []domain.Product
}

// Store is the static in-memory catalog. It is never mutated after New,
// so it is safe for concurrent readers without locking.
type Store struct {
	products   []domain.Product
	categories []domain.Category
	deals      []domain.Deal
	reviews    map[int64][]domain.Review
}

func New() *Store {
	return &Store{
		products:   fixtureProducts(),
		categories: fixtureCategories(),
		deals:      fixtureDeals(time.Now()),
		reviews:    fixtureReviews(),
	}
}

func (s *Store) Products() []domain.Product {
	return cloneProducts(s.products)
}

func (s *Store) Product(id int64) (domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrNotFound
}

func (s *Store) Categories() []domain.Category {
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) CategoryBySlug(slug string) (domain.Category, bool) {
	for _, c := range s.categories {
		if c.Slug() == slug {
			return c, true
		}
	}
	return domain.Category{}, false
}

// Reviews never returns nil so callers can render an empty list directly.
func (s *Store) Reviews(productID int64) []domain.Review {
	r := s.reviews[productID]
	out := make([]domain.Review, len(r))
	copy(out, r)
	return out
}

func (s *Store) Deals() []domain.Deal {
	out := make([]domain.Deal, len(s.deals))
	copy(out, s.deals)
	return out
}

func (s *Store) Featured() []domain.Product {
	return cloneProducts(s.products[:min(featuredCount, len(s.products))])
}

func (s *Store) DealProducts() []domain.Product {
	out := make([]domain.Product, 0, dealProductsCount)
	for _, p := range s.products {
		if !p.Deal {
			continue
		}
		out = append(out, p)
		if len(out) == dealProductsCount {
			break
		}
	}
	return out
}

// Search matches query case-insensitively against title, description,
// category name and features. An empty query matches nothing.
func (s *Store) Search(query string, mode SortMode) []domain.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []domain.Product{}
	}

	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	sortProducts(out, mode)
	return out
}

func matches(p domain.Product, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q) {
		return true
	}
	for _, f := range p.Features {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter narrows the category browse view. A zero MinPrice or MinRating and
// an invalid MaxPrice disable the bound; a valid zero MaxPrice keeps only
// free products.
type Filter struct {
	CategorySlug string
	MinPrice     decimal.Decimal
	MaxPrice     decimal.NullDecimal
	MinRating    float64
	Sort         SortMode
}

// Browse lists products of one category. An unknown or empty slug browses
// the whole catalog.
func (s *Store) Browse(f Filter) []domain.Product {
	category, scoped := s.CategoryBySlug(f.CategorySlug)

	out := make([]domain.Product, 0)
	for _, p := range s.products {
		if scoped && p.CategoryID != category.ID {
			continue
		}
		if p.Price.LessThan(f.MinPrice) {
			continue
		}
		if f.MaxPrice.Valid && p.Price.GreaterThan(f.MaxPrice.Decimal) {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		out = append(out, p)
	}
	sortProducts(out, f.Sort)
	return out
}

func sortProducts(products []domain.Product, mode SortMode) {
	var less func(a, b domain.Product) bool
	switch mode {
	case SortPriceLow:
		less = func(a, b domain.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceHigh:
		less = func(a, b domain.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b domain.Product) bool { return a.Rating > b.Rating }
	case SortNewest:
		less = func(a, b domain.Product) bool { return a.ID > b.ID }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

func cloneProducts(in []domain.Product) []domain.Product {
	out := make([]domain.Product, len(in))
	copy(out, in)
	return out
}
