package domain

// ProductSource holds the raw display attributes of one product card.
// Values are kept as text; parsing happens when structured data is built.
type ProductSource struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name,omitempty"`
	Image        string `json:"image,omitempty"`
	Description  string `json:"description,omitempty"`
	SKU          string `json:"sku,omitempty"`
	URL          string `json:"url,omitempty"`
	Price        string `json:"price,omitempty"`
	Availability string `json:"availability,omitempty"`
	Rating       string `json:"rating,omitempty"`
	ReviewCount  string `json:"reviewCount,omitempty"`
}

// ProductGraph is the schema.org JSON-LD document listing every product on a page
type ProductGraph struct {
	Context string      `json:"@context"`
	Graph   []ProductLD `json:"@graph"`
}

// ProductLD is a schema.org Product
type ProductLD struct {
	Type            string             `json:"@type"`
	Name            string             `json:"name"`
	Image           []string           `json:"image"`
	Description     string             `json:"description,omitempty"`
	SKU             string             `json:"sku,omitempty"`
	URL             string             `json:"url,omitempty"`
	Offers          *OfferLD           `json:"offers,omitempty"`
	AggregateRating *AggregateRatingLD `json:"aggregateRating,omitempty"`
}

// OfferLD is a schema.org Offer
type OfferLD struct {
	Type          string `json:"@type"`
	PriceCurrency string `json:"priceCurrency"`
	Price         string `json:"price"`
	Availability  string `json:"availability"`
	URL           string `json:"url"`
}

// AggregateRatingLD is a schema.org AggregateRating
type AggregateRatingLD struct {
	Type        string  `json:"@type"`
	RatingValue float64 `json:"ratingValue"`
	ReviewCount int     `json:"reviewCount"`
}
