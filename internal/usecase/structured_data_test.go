package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mcare/storefront/internal/domain"
	"github.com/mcare/storefront/internal/infrastructure/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPageURL = "https://shop.example.com/soins?ref=home#top"

func TestGenerateProductGraph_NoSources(t *testing.T) {
	assert.Nil(t, GenerateProductGraph(nil, testPageURL))
	assert.Nil(t, GenerateProductGraph([]domain.ProductSource{}, testPageURL))
}

func TestGenerateProductGraph_FullProduct(t *testing.T) {
	graph := GenerateProductGraph([]domain.ProductSource{{
		ID:           "42",
		Name:         "Crème de nuit",
		Image:        "https://cdn.example.com/creme.jpg",
		Description:  "Hydratation intense",
		SKU:          "CN-42",
		URL:          "https://shop.example.com/p/creme",
		Price:        "24.5",
		Availability: "OutOfStock",
		Rating:       "4.6",
		ReviewCount:  "128",
	}}, testPageURL)

	require.NotNil(t, graph)
	assert.Equal(t, SchemaContext, graph.Context)
	require.Len(t, graph.Graph, 1)

	assert.Equal(t, domain.ProductLD{
		Type:        "Product",
		Name:        "Crème de nuit",
		Image:       []string{"https://cdn.example.com/creme.jpg"},
		Description: "Hydratation intense",
		SKU:         "CN-42",
		URL:         "https://shop.example.com/p/creme",
		Offers: &domain.OfferLD{
			Type:          "Offer",
			PriceCurrency: "EUR",
			Price:         "24.50",
			Availability:  "https://schema.org/OutOfStock",
			URL:           "https://shop.example.com/p/creme",
		},
		AggregateRating: &domain.AggregateRatingLD{
			Type:        "AggregateRating",
			RatingValue: 4.6,
			ReviewCount: 128,
		},
	}, graph.Graph[0])
}

func TestGenerateProductGraph_NameAndImageOnly(t *testing.T) {
	graph := GenerateProductGraph([]domain.ProductSource{{
		Name:  "Savon",
		Image: "/img/savon.png",
	}}, testPageURL)

	data, err := MarshalProductGraph(graph)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	products := doc["@graph"].([]any)
	require.Len(t, products, 1)
	product := products[0].(map[string]any)

	assert.Equal(t, "Product", product["@type"])
	assert.Equal(t, "Savon", product["name"])
	assert.Equal(t, []any{"/img/savon.png"}, product["image"])
	assert.NotContains(t, product, "offers")
	assert.NotContains(t, product, "aggregateRating")
	assert.NotContains(t, product, "sku")
	assert.NotContains(t, product, "url")
	assert.NotContains(t, product, "description")
}

func TestGenerateProductGraph_EmptyImageIsEmptyList(t *testing.T) {
	graph := GenerateProductGraph([]domain.ProductSource{{Name: "Sans image"}}, testPageURL)

	data, err := MarshalProductGraph(graph)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"image": []`)
}

func TestGenerateProductGraph_Defaults(t *testing.T) {
	graph := GenerateProductGraph([]domain.ProductSource{{
		ID:    "7",
		Name:  "Baume",
		Price: "9",
	}}, testPageURL)

	product := graph.Graph[0]
	assert.Equal(t, "7", product.SKU, "sku falls back to id")
	assert.Equal(t, "https://shop.example.com/soins#product-7", product.URL)
	require.NotNil(t, product.Offers)
	assert.Equal(t, "9.00", product.Offers.Price)
	assert.Equal(t, DefaultAvailability, product.Offers.Availability)
	assert.Equal(t, product.URL, product.Offers.URL)
}

func TestGenerateProductGraph_OfferURLFallsBackToPage(t *testing.T) {
	graph := GenerateProductGraph([]domain.ProductSource{{Name: "X", Price: "1"}}, testPageURL)

	product := graph.Graph[0]
	assert.Empty(t, product.URL)
	assert.Equal(t, testPageURL, product.Offers.URL)
}

func TestGenerateProductGraph_Price(t *testing.T) {
	tests := []struct {
		raw       string
		want      string
		wantOffer bool
	}{
		{"19,99", "19.99", true},
		{"19.99", "19.99", true},
		{"5", "5.00", true},
		{"12,5 €", "12.50", true},
		{"gratuit", "", false},
		{"", "", false},
		{"-3", "-3.00", true},
		{"-0,5", "-0.50", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			graph := GenerateProductGraph([]domain.ProductSource{{Name: "P", Price: tt.raw}}, testPageURL)
			offers := graph.Graph[0].Offers

			if !tt.wantOffer {
				assert.Nil(t, offers)
				return
			}
			require.NotNil(t, offers)
			assert.Equal(t, tt.want, offers.Price)
		})
	}
}

func TestGenerateProductGraph_Availability(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", "https://schema.org/InStock"},
		{"InStock", "https://schema.org/InStock"},
		{"PreOrder", "https://schema.org/PreOrder"},
		{"https://schema.org/OutOfStock", "https://schema.org/OutOfStock"},
		{"http://schema.org/InStock", "http://schema.org/InStock"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAvailability(tt.raw))
		})
	}
}

func TestGenerateProductGraph_RatingNeedsBothFields(t *testing.T) {
	tests := []struct {
		name        string
		rating      string
		reviewCount string
		want        bool
	}{
		{"both present", "4.5", "10", true},
		{"rating only", "4.5", "", false},
		{"reviews only", "", "10", false},
		{"rating not numeric", "good", "10", false},
		{"reviews not numeric", "4.5", "many", false},
		{"zero values still count", "0", "0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := GenerateProductGraph([]domain.ProductSource{{
				Name:        "P",
				Rating:      tt.rating,
				ReviewCount: tt.reviewCount,
			}}, testPageURL)

			if tt.want {
				assert.NotNil(t, graph.Graph[0].AggregateRating)
			} else {
				assert.Nil(t, graph.Graph[0].AggregateRating)
			}
		})
	}
}

func TestProductAnchorURL(t *testing.T) {
	assert.Equal(t, "https://shop.example.com/soins#product-1", productAnchorURL(testPageURL, "1"))
	assert.Equal(t, "#product-1", productAnchorURL("", "1"))
}

func TestStructuredDataService_Generate(t *testing.T) {
	svc := NewStructuredDataService(nil)

	data, err := svc.Generate(nil, testPageURL)
	assert.NoError(t, err)
	assert.Nil(t, data)

	data, err = svc.Generate([]domain.ProductSource{{Name: "A"}}, testPageURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"@context\": \"https://schema.org\""))
}

const catalogPage = `<html><head><title>Boutique</title></head><body>` +
	`<div class="product-card" data-id="1" data-name="Sérum éclat" data-price="19,99" data-image="/img/serum.jpg" data-rating="4.8" data-reviewcount="52">` +
	`<h3 class="product-title">ignored</h3></div>` +
	`<div class="product-card" data-id="2">` +
	`<img src="/img/baume.jpg"/><h3 class="product-title"> Baume lèvres </h3>` +
	`<p class="product-description">Nourrit et protège</p><span class="price-value">7,50</span></div>` +
	`</body></html>`

func TestStructuredDataService_Annotate(t *testing.T) {
	svc := NewStructuredDataService(nil)
	ctx := context.Background()

	out, injected, err := svc.Annotate(ctx, catalogPage, testPageURL)
	require.NoError(t, err)
	assert.True(t, injected)

	doc, err := page.Parse(strings.NewReader(out))
	require.NoError(t, err)
	content, count := page.InjectedDocument(doc)
	assert.Equal(t, 1, count)

	var graph domain.ProductGraph
	require.NoError(t, json.Unmarshal([]byte(content), &graph))
	require.Len(t, graph.Graph, 2)

	first := graph.Graph[0]
	assert.Equal(t, "Sérum éclat", first.Name)
	assert.Equal(t, []string{"/img/serum.jpg"}, first.Image, "data-image is used as given")
	assert.Equal(t, "19.99", first.Offers.Price)
	require.NotNil(t, first.AggregateRating)
	assert.Equal(t, 52, first.AggregateRating.ReviewCount)

	second := graph.Graph[1]
	assert.Equal(t, "Baume lèvres", second.Name)
	assert.Equal(t, []string{"https://shop.example.com/img/baume.jpg"}, second.Image)
	assert.Equal(t, "Nourrit et protège", second.Description)
	assert.Equal(t, "7.50", second.Offers.Price)
	assert.Nil(t, second.AggregateRating)
}

func TestStructuredDataService_AnnotateIsIdempotent(t *testing.T) {
	svc := NewStructuredDataService(nil)
	ctx := context.Background()

	first, _, err := svc.Annotate(ctx, catalogPage, testPageURL)
	require.NoError(t, err)
	second, injected, err := svc.Annotate(ctx, first, testPageURL)
	require.NoError(t, err)
	assert.True(t, injected)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(second, `id="products-jsonld"`))
}

func TestStructuredDataService_AnnotateNoProducts(t *testing.T) {
	svc := NewStructuredDataService(nil)
	html := `<html><head></head><body><p>Rien ici</p></body></html>`

	out, injected, err := svc.Annotate(context.Background(), html, testPageURL)

	require.NoError(t, err)
	assert.False(t, injected)
	assert.Equal(t, html, out)
}

func TestStructuredDataService_AnnotateCancelled(t *testing.T) {
	svc := NewStructuredDataService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, injected, err := svc.Annotate(ctx, catalogPage, testPageURL)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, injected)
	assert.Equal(t, catalogPage, out)
}
