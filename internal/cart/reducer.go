package cart

import (
	"time"

	"github.com/fjod/storefront/internal/domain"
)

// ActionKind tags the variant carried by an Action.
type ActionKind int

const (
	ActionAdd ActionKind = iota + 1
	ActionRemove
	ActionUpdateQuantity
	ActionClear
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdd:
		return "ADD_TO_CART"
	case ActionRemove:
		return "REMOVE_FROM_CART"
	case ActionUpdateQuantity:
		return "UPDATE_QUANTITY"
	case ActionClear:
		return "CLEAR_CART"
	default:
		return "UNKNOWN"
	}
}

// Action is a cart command. Only the fields of its Kind are meaningful:
// Product for ActionAdd, ProductID for ActionRemove, ProductID and Quantity
// for ActionUpdateQuantity.
type Action struct {
	Kind      ActionKind
	Product   domain.Product
	ProductID int64
	Quantity  int
}

func Add(p domain.Product) Action {
	return Action{Kind: ActionAdd, Product: p, ProductID: p.ID}
}

func Remove(productID int64) Action {
	return Action{Kind: ActionRemove, ProductID: productID}
}

func UpdateQuantity(productID int64, quantity int) Action {
	return Action{Kind: ActionUpdateQuantity, ProductID: productID, Quantity: quantity}
}

func Clear() Action {
	return Action{Kind: ActionClear}
}

// Reduce applies a to c and returns the next cart. c is never modified.
// now and newID are only consulted when ADD appends a new line.
func Reduce(c domain.Cart, a Action, now time.Time, newID func() string) domain.Cart {
	next := c.Clone()

	switch a.Kind {
	case ActionAdd:
		if i := next.IndexOf(a.Product.ID); i >= 0 {
			// snapshot is kept as it was on first insertion
			next.Items[i].Quantity++
			return next
		}
		next.Items = append(next.Items, domain.CartItem{
			ID:        newID(),
			ProductID: a.Product.ID,
			Product:   a.Product,
			Quantity:  1,
			AddedAt:   now,
		})

	case ActionRemove:
		if i := next.IndexOf(a.ProductID); i >= 0 {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
		}

	case ActionUpdateQuantity:
		i := next.IndexOf(a.ProductID)
		if i < 0 {
			return next
		}
		if a.Quantity <= 0 {
			next.Items = append(next.Items[:i], next.Items[i+1:]...)
			return next
		}
		next.Items[i].Quantity = a.Quantity

	case ActionClear:
		next.Items = []domain.CartItem{}
	}

	return next
}
