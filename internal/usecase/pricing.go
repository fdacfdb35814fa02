package usecase

import (
	"github.com/mcare/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

// ShippingPolicy charges a flat fee unless the subtotal is strictly above FreeThreshold
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

// DefaultShippingPolicy ships free above 49 EUR and charges 4.90 EUR otherwise
func DefaultShippingPolicy() ShippingPolicy {
	return NewShippingPolicy(49, 4.9)
}

// NewShippingPolicy builds a policy from configured amounts
func NewShippingPolicy(freeThreshold, flatFee float64) ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.NewFromFloat(freeThreshold),
		FlatFee:       decimal.NewFromFloat(flatFee),
	}
}

// ShippingFor returns the shipping charge for a given subtotal
func (p ShippingPolicy) ShippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(p.FreeThreshold) {
		return decimal.Zero
	}
	return p.FlatFee
}

// ComputeTotals derives subtotal, shipping, total and item count from the cart.
// It is recomputed on every read so it can never go stale.
func ComputeTotals(items domain.Cart, policy ShippingPolicy) domain.Totals {
	subtotal := decimal.Zero
	count := 0

	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		count += item.Quantity
	}

	shipping := policy.ShippingFor(subtotal)

	return domain.Totals{
		Subtotal:  subtotal,
		Shipping:  shipping,
		Total:     subtotal.Add(shipping),
		ItemCount: count,
	}
}
