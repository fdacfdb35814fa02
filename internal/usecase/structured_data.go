package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/mcare/storefront/internal/domain"
	"github.com/mcare/storefront/internal/infrastructure/page"
	"go.uber.org/zap"
)

// schema.org vocabulary used in the products document
const (
	SchemaContext       = "https://schema.org"
	schemaNamespace     = "https://schema.org/"
	OfferCurrency       = "EUR"
	DefaultAvailability = schemaNamespace + "InStock"
)

// GenerateProductGraph builds the JSON-LD document for every product source.
// It returns nil when there is nothing to describe.
func GenerateProductGraph(sources []domain.ProductSource, pageURL string) *domain.ProductGraph {
	if len(sources) == 0 {
		return nil
	}

	graph := &domain.ProductGraph{
		Context: SchemaContext,
		Graph:   make([]domain.ProductLD, 0, len(sources)),
	}
	for _, src := range sources {
		graph.Graph = append(graph.Graph, describeProduct(src, pageURL))
	}
	return graph
}

// describeProduct maps one source to a Product. Fields that do not parse are
// omitted, and the offer and rating blocks only appear when fully derivable.
func describeProduct(src domain.ProductSource, pageURL string) domain.ProductLD {
	product := domain.ProductLD{
		Type:        "Product",
		Name:        src.Name,
		Image:       []string{},
		Description: src.Description,
		SKU:         src.SKU,
		URL:         src.URL,
	}

	if src.Image != "" {
		product.Image = []string{src.Image}
	}
	if product.SKU == "" {
		product.SKU = src.ID
	}
	if product.URL == "" && src.ID != "" {
		product.URL = productAnchorURL(pageURL, src.ID)
	}

	if price, ok := parsePrice(src.Price); ok {
		offerURL := product.URL
		if offerURL == "" {
			offerURL = pageURL
		}
		product.Offers = &domain.OfferLD{
			Type:          "Offer",
			PriceCurrency: OfferCurrency,
			Price:         price.StringFixed(2),
			Availability:  normalizeAvailability(src.Availability),
			URL:           offerURL,
		}
	}

	rating, ratingOK := parseLeadingFloat(src.Rating)
	reviews, reviewsOK := parseLeadingInt(src.ReviewCount)
	if ratingOK && reviewsOK {
		product.AggregateRating = &domain.AggregateRatingLD{
			Type:        "AggregateRating",
			RatingValue: rating,
			ReviewCount: reviews,
		}
	}

	return product
}

// productAnchorURL points at the product card on the page: origin + path + #product-<id>
func productAnchorURL(pageURL, id string) string {
	anchor := "#product-" + id

	u, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		return anchor
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.RawFragment = ""
	return u.String() + anchor
}

// normalizeAvailability expands bare tokens like "InStock" into schema.org URIs
func normalizeAvailability(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return DefaultAvailability
	case strings.HasPrefix(v, "http"):
		return v
	default:
		return schemaNamespace + v
	}
}

// MarshalProductGraph renders the document the way it is embedded in pages
func MarshalProductGraph(graph *domain.ProductGraph) ([]byte, error) {
	data, err := json.MarshalIndent(graph, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode structured data: %w", err)
	}
	return data, nil
}

// StructuredDataService annotates storefront pages with product JSON-LD
type StructuredDataService struct {
	logger *zap.Logger
}

// NewStructuredDataService creates a structured data service
func NewStructuredDataService(logger *zap.Logger) *StructuredDataService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuredDataService{logger: logger}
}

// Generate returns the encoded document for the given sources, or nil when there are none
func (s *StructuredDataService) Generate(sources []domain.ProductSource, pageURL string) ([]byte, error) {
	graph := GenerateProductGraph(sources, pageURL)
	if graph == nil {
		return nil, nil
	}
	return MarshalProductGraph(graph)
}

// Annotate injects the products document into an HTML page, replacing any earlier one.
// A page without product cards is returned unchanged with injected=false.
func (s *StructuredDataService) Annotate(ctx context.Context, html string, pageURL string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return html, false, err
	}

	doc, err := page.Parse(strings.NewReader(html))
	if err != nil {
		s.logger.Error("failed to parse page for structured data", zap.Error(err))
		return html, false, err
	}

	sources := page.ExtractProductSources(doc, pageURL)
	if len(sources) == 0 {
		return html, false, nil
	}

	payload, err := s.Generate(sources, pageURL)
	if err != nil {
		s.logger.Error("failed to generate structured data", zap.Error(err))
		return html, false, err
	}

	page.InjectDocument(doc, payload)

	out, err := page.Render(doc)
	if err != nil {
		s.logger.Error("failed to render annotated page", zap.Error(err))
		return html, false, err
	}

	s.logger.Debug("injected structured data", zap.Int("products", len(sources)))
	return out, true, nil
}
