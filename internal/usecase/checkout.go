package usecase

import "github.com/mcare/storefront/internal/domain"

// Checkout notices
const (
	EmptyCartNotice      = "Votre panier est vide."
	PaymentPendingNotice = "Flux paiement non implémenté."
)

// Checkout refuses an empty cart with a blocking notice. Payment is not
// integrated, so a non-empty cart only gets an informational notice.
func (s *CartStore) Checkout() (domain.CheckoutNotice, error) {
	if s.Len() == 0 {
		return domain.CheckoutNotice{Message: EmptyCartNotice}, domain.ErrEmptyCart
	}
	return domain.CheckoutNotice{Message: PaymentPendingNotice}, nil
}
