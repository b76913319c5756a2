package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	Items []CartItem `json:"items"`
}

// CartItem is one line of the cart. Product is a snapshot taken when the
// line was created and is never refreshed from the catalog.
type CartItem struct {
	ID        string    `json:"id"`
	ProductID int64     `json:"productId"`
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Subtotal is quantity times the snapshot price.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (c Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// IndexOf returns the position of the line for productID, or -1.
func (c Cart) IndexOf(productID int64) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone copies the item slice so callers cannot mutate the owner's state.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
