package handler

import (
	"github.com/gin-gonic/gin"

	shippingapp "github.com/icepoint/backend/internal/application/shipping"
)

// ShippingHandler quotes delivery fees
type ShippingHandler struct {
	BaseHandler
	quoteService *shippingapp.QuoteService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(quoteService *shippingapp.QuoteService) *ShippingHandler {
	return &ShippingHandler{quoteService: quoteService}
}

// Quote measures the distance to the given address and returns the fee
func (h *ShippingHandler) Quote(c *gin.Context) {
	var req shippingapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.quoteService.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
