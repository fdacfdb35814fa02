package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/mcare/storefront/internal/domain"
	"go.uber.org/zap"
)

// Newsletter acknowledgements
const (
	InvalidEmailMessage       = "Veuillez saisir une adresse email valide."
	SubscribedMessage         = "Merci ! Vérifiez votre email pour confirmer votre inscription."
	SubscribedDegradedMessage = "Merci ! (mode dégradé) Nous avons bien reçu votre demande."
)

// NewsletterService forwards signups and always thanks the shopper,
// whether or not the provider accepted the request.
type NewsletterService struct {
	client domain.NewsletterClient
	logger *zap.Logger
}

// NewNewsletterService creates a newsletter service
func NewNewsletterService(client domain.NewsletterClient, logger *zap.Logger) *NewsletterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsletterService{
		client: client,
		logger: logger,
	}
}

// Subscribe validates the address and submits it. Only an unusable address is
// an error; upstream failures produce a degraded acknowledgement.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (domain.Acknowledgement, error) {
	email = strings.TrimSpace(email)
	if !isValidEmail(email) {
		return domain.Acknowledgement{Message: InvalidEmailMessage}, fmt.Errorf("%w: %q", domain.ErrInvalidEmail, email)
	}

	if s.client == nil {
		s.logger.Warn("newsletter client not configured, acknowledging in degraded mode")
		return domain.Acknowledgement{Message: SubscribedDegradedMessage, Degraded: true}, nil
	}

	if err := s.client.Subscribe(ctx, email); err != nil {
		s.logger.Warn("newsletter submission failed, acknowledging in degraded mode", zap.Error(err))
		return domain.Acknowledgement{Message: SubscribedDegradedMessage, Degraded: true}, nil
	}

	return domain.Acknowledgement{Message: SubscribedMessage}, nil
}

// isValidEmail accepts a bare address such as an <input type="email"> would
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
