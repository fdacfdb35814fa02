// Package page reads product cards out of storefront HTML and injects the
// products JSON-LD script into its head.
package page

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mcare/storefront/internal/domain"
)

// ScriptID marks the injected JSON-LD script so at most one exists per page
const ScriptID = "products-jsonld"

const (
	productCardSelector  = ".product-card"
	titleSelector        = ".product-title"
	descriptionSelector  = ".product-description"
	priceValueSelector   = ".price-value"
	injectedScriptFilter = "script#" + ScriptID
)

// Parse reads an HTML document
func Parse(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// ExtractProductSources returns one source per .product-card in document order.
// data-* attributes win; the card's visible markup is the fallback. An <img src>
// fallback is resolved against pageURL when that is an absolute URL.
func ExtractProductSources(doc *goquery.Document, pageURL string) []domain.ProductSource {
	base := absoluteBase(pageURL)
	cards := doc.Find(productCardSelector)
	sources := make([]domain.ProductSource, 0, cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		src := domain.ProductSource{
			ID:           attr(card, "data-id"),
			Name:         attr(card, "data-name"),
			Image:        attr(card, "data-image"),
			Description:  attr(card, "data-description"),
			SKU:          attr(card, "data-sku"),
			URL:          attr(card, "data-url"),
			Price:        attr(card, "data-price"),
			Availability: attr(card, "data-availability"),
			Rating:       attr(card, "data-rating"),
			ReviewCount:  attr(card, "data-reviewcount"),
		}

		if src.ReviewCount == "" {
			src.ReviewCount = attr(card, "data-review-count")
		}
		if src.Name == "" {
			src.Name = text(card, titleSelector)
		}
		if src.Image == "" {
			if raw, ok := card.Find("img").First().Attr("src"); ok {
				src.Image = resolve(base, raw)
			}
		}
		if src.Description == "" {
			src.Description = text(card, descriptionSelector)
		}
		if src.Price == "" {
			src.Price = text(card, priceValueSelector)
		}

		sources = append(sources, src)
	})

	return sources
}

// InjectDocument replaces any previously injected JSON-LD script with a new one
// holding payload, appended as the last child of <head>.
func InjectDocument(doc *goquery.Document, payload []byte) {
	doc.Find(injectedScriptFilter).Remove()

	script := fmt.Sprintf(`<script type="application/ld+json" id="%s">%s</script>`, ScriptID, payload)
	doc.Find("head").First().AppendHtml(script)
}

// InjectedDocument returns the content of the injected script and how many exist
func InjectedDocument(doc *goquery.Document) (string, int) {
	scripts := doc.Find(injectedScriptFilter)
	return scripts.First().Text(), scripts.Length()
}

// Render serialises the whole document back to HTML
func Render(doc *goquery.Document) (string, error) {
	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return html, nil
}

func absoluteBase(pageURL string) *url.URL {
	base, err := url.Parse(pageURL)
	if err != nil || !base.IsAbs() {
		return nil
	}
	return base
}

// resolve makes ref absolute the way a browser's img.src does
func resolve(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if base == nil || ref == "" {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

func text(s *goquery.Selection, selector string) string {
	return strings.TrimSpace(s.Find(selector).First().Text())
}
