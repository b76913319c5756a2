package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"reviewCount"`
	Image         string          `json:"image"`
	Images        []string        `json:"images"`
	Category      string          `json:"category"`
	CategoryID    int64           `json:"categoryId"`
	Description   string          `json:"description"`
	Features      []string        `json:"features"`
	InStock       bool            `json:"inStock"`
	FreeShipping  bool            `json:"freeShipping"`
	Prime         bool            `json:"prime"`
	Deal          bool            `json:"deal"`
}

var hundred = decimal.NewFromInt(100)

// DiscountPercent returns the rounded percentage saved against OriginalPrice,
// or 0 when the product is not discounted.
func (p Product) DiscountPercent() int64 {
	if !p.OriginalPrice.GreaterThan(p.Price) || p.OriginalPrice.IsZero() {
		return 0
	}
	return decimal.NewFromInt(1).
		Sub(p.Price.Div(p.OriginalPrice)).
		Mul(hundred).
		Round(0).
		IntPart()
}

type Category struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Image string `json:"image"`
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug is the URL form of the category name: "Home & Garden" -> "home-&-garden".
func (c Category) Slug() string {
	return whitespace.ReplaceAllString(strings.ToLower(c.Name), "-")
}

type Review struct {
	ID       int64  `json:"id"`
	User     string `json:"user"`
	Rating   int    `json:"rating"`
	Date     string `json:"date"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Helpful  int    `json:"helpful"`
	Verified bool   `json:"verified"`
}

type Deal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Discount    string    `json:"discount"`
	EndTime     time.Time `json:"endTime"`
}
