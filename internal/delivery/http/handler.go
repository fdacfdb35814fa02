package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mcare/storefront/internal/domain"
	"github.com/mcare/storefront/internal/usecase"
	"go.uber.org/zap"
)

// maxPageBytes caps the HTML accepted by the annotate endpoint
const maxPageBytes = 4 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	sessions       *usecase.CartSessions
	newsletter     *usecase.NewsletterService
	structuredData *usecase.StructuredDataService
	pageURL        string
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler. pageURL is the default page address
// used for structured data when a request does not name one.
func NewHandler(
	sessions *usecase.CartSessions,
	newsletter *usecase.NewsletterService,
	structuredData *usecase.StructuredDataService,
	pageURL string,
	logger *zap.Logger,
) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		sessions:       sessions,
		newsletter:     newsletter,
		structuredData: structuredData,
		pageURL:        pageURL,
		logger:         logger,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mcare-storefront",
		"version": "1.0.0",
	})
}

type addItemRequest struct {
	ID    string  `json:"id" binding:"required"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// quantityRequest accepts the quantity as a JSON number or as the raw input text
type quantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

// text returns the quantity as the shopper typed it
func (r quantityRequest) text() string {
	var s string
	if err := json.Unmarshal(r.Quantity, &s); err == nil {
		return s
	}
	return string(r.Quantity)
}

// cart returns the store for the request's session
func (h *Handler) cart(c *gin.Context) *usecase.CartStore {
	return h.sessions.Get(c.Request.Context(), SessionID(c))
}

// GetCart renders the session's cart
func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.cart(c).View())
}

// AddItem adds one unit of a product to the cart
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	store := h.cart(c)
	if err := store.Add(c.Request.Context(), req.ID, req.Name, req.Price, req.Image); err != nil {
		if errors.Is(err, domain.ErrInvalidItem) {
			respondError(c, http.StatusBadRequest, err)
			return
		}
		h.logger.Error("failed to add item", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, store.View())
}

// SetQuantity replaces an item's quantity
func (h *Handler) SetQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	store := h.cart(c)
	if !store.SetQuantityText(c.Request.Context(), c.Param("id"), req.text()) {
		respondItemNotFound(c)
		return
	}
	c.JSON(http.StatusOK, store.View())
}

// IncrementItem adds one to an item's quantity
func (h *Handler) IncrementItem(c *gin.Context) {
	h.changeQuantity(c, 1)
}

// DecrementItem removes one from an item's quantity, never going below 1
func (h *Handler) DecrementItem(c *gin.Context) {
	h.changeQuantity(c, -1)
}

func (h *Handler) changeQuantity(c *gin.Context, delta int) {
	store := h.cart(c)
	if !store.ChangeQuantity(c.Request.Context(), c.Param("id"), delta) {
		respondItemNotFound(c)
		return
	}
	c.JSON(http.StatusOK, store.View())
}

// RemoveItem deletes an item from the cart
func (h *Handler) RemoveItem(c *gin.Context) {
	store := h.cart(c)
	if !store.Remove(c.Request.Context(), c.Param("id")) {
		respondItemNotFound(c)
		return
	}
	c.JSON(http.StatusOK, store.View())
}

// Checkout returns the checkout notice; an empty cart is a conflict
func (h *Handler) Checkout(c *gin.Context) {
	notice, err := h.cart(c).Checkout()
	if errors.Is(err, domain.ErrEmptyCart) {
		c.JSON(http.StatusConflict, notice)
		return
	}
	c.JSON(http.StatusOK, notice)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles newsletter signups
func (h *Handler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Acknowledgement{Message: usecase.InvalidEmailMessage})
		return
	}

	ack, err := h.newsletter.Subscribe(c.Request.Context(), req.Email)
	if errors.Is(err, domain.ErrInvalidEmail) {
		c.JSON(http.StatusBadRequest, ack)
		return
	}
	if err != nil {
		h.logger.Error("newsletter signup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, ack)
}

// AnnotatePage injects the products JSON-LD into the posted HTML page
func (h *Handler) AnnotatePage(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxPageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge,
				fmt.Errorf("%w: page exceeds %d bytes", domain.ErrInvalidRequest, tooLarge.Limit))
			return
		}
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	pageURL := c.DefaultQuery("page_url", h.pageURL)
	out, injected, err := h.structuredData.Annotate(c.Request.Context(), string(body), pageURL)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, err)
		return
	}

	c.Header("X-Structured-Data", fmt.Sprintf("%t", injected))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
}

// ProductGraph returns the JSON-LD document for the posted product sources
func (h *Handler) ProductGraph(c *gin.Context) {
	var sources []domain.ProductSource
	if err := c.ShouldBindJSON(&sources); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err))
		return
	}

	data, err := h.structuredData.Generate(sources, c.DefaultQuery("page_url", h.pageURL))
	if err != nil {
		h.logger.Error("failed to generate structured data", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	if data == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.Data(http.StatusOK, "application/ld+json", data)
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func respondItemNotFound(c *gin.Context) {
	respondError(c, http.StatusNotFound, fmt.Errorf("%w: %s", domain.ErrItemNotFound, c.Param("id")))
}
