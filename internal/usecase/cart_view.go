package usecase

import (
	"strconv"
	"strings"

	"github.com/mcare/storefront/internal/domain"
)

// Labels shown by the cart modal
const (
	EmptyCartMessage  = "Votre panier est vide"
	FreeShippingLabel = "Gratuit"
)

// CartView is everything the cart modal needs to draw itself
type CartView struct {
	Empty        bool            `json:"empty"`
	EmptyMessage string          `json:"emptyMessage,omitempty"`
	Lines        []CartLineView  `json:"lines"`
	Summary      CartSummaryView `json:"summary"`
}

// CartLineView is one rendered cart line
type CartLineView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	Price       string `json:"price"`
	Quantity    int    `json:"quantity"`
	MinQuantity int    `json:"minQuantity"`
}

// CartSummaryView holds the formatted totals and the header badge count
type CartSummaryView struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Total    string `json:"total"`
	Count    string `json:"count"`
}

// RenderCart turns cart contents and their totals into a view-model.
// It has no side effects.
func RenderCart(items domain.Cart, totals domain.Totals) CartView {
	view := CartView{
		Empty: len(items) == 0,
		Lines: make([]CartLineView, 0, len(items)),
	}
	if view.Empty {
		view.EmptyMessage = EmptyCartMessage
	}

	for _, item := range items {
		view.Lines = append(view.Lines, CartLineView{
			ID:          item.ID,
			Name:        item.Name,
			Image:       escapeImageURL(item.Image),
			Price:       FormatEURFloat(item.Price),
			Quantity:    item.Quantity,
			MinQuantity: 1,
		})
	}

	shipping := FormatEUR(totals.Shipping)
	if totals.FreeShipping() {
		shipping = FreeShippingLabel
	}

	view.Summary = CartSummaryView{
		Subtotal: FormatEUR(totals.Subtotal),
		Shipping: shipping,
		Total:    FormatEUR(totals.Total),
		Count:    strconv.Itoa(totals.ItemCount),
	}

	return view
}

// imageQuoteEscaper keeps image URLs safe inside a quoted CSS url('...')
var imageQuoteEscaper = strings.NewReplacer(`"`, "%22", "'", "%27")

func escapeImageURL(s string) string {
	return imageQuoteEscaper.Replace(s)
}
