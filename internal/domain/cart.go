package domain

import "github.com/shopspring/decimal"

// LineItem is one product entry in the cart. The JSON shape is the
// persisted format and must stay {id, name, price, image, quantity}.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Cart is an ordered list of line items in add order
type Cart []LineItem

// Find returns the index of the item with the given id, or -1
func (c Cart) Find(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Totals holds values derived from the cart contents
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// FreeShipping reports whether the shipping fee was waived
func (t Totals) FreeShipping() bool {
	return t.Shipping.IsZero()
}

// CheckoutNotice is the message shown after a checkout attempt
type CheckoutNotice struct {
	Message string `json:"message"`
}
