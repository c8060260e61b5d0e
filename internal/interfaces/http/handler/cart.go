package handler

import (
	"github.com/gin-gonic/gin"

	cartapp "github.com/icepoint/backend/internal/application/cart"
	"github.com/icepoint/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the customer's server-side shopping cart
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the caller's open cart
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cart)
}

// Sync replaces the caller's cart with the declared item list
func (h *CartHandler) Sync(c *gin.Context) {
	var req cartapp.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.Sync(c.Request.Context(), middleware.GetUserID(c), req.Items)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cart)
}

// Transfer absorbs a guest cart into the authenticated customer's cart.
// Called once right after login.
func (h *CartHandler) Transfer(c *gin.Context) {
	var req cartapp.SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.cartService.Transfer(c.Request.Context(), middleware.GetUserID(c), req.Items)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cart)
}
