package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/icepoint/backend/internal/application/order"
	"github.com/icepoint/backend/internal/interfaces/http/dto"
	"github.com/icepoint/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles scheduled order endpoints
type OrderHandler struct {
	BaseHandler
	checkoutService *orderapp.CheckoutService
	orderService    *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *orderapp.CheckoutService, orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		orderService:    orderService,
	}
}

// actor resolves the caller's identity from the request context
func actor(c *gin.Context) orderapp.Actor {
	return orderapp.Actor{
		UserID: middleware.GetUserID(c),
		Email:  middleware.GetUserEmail(c),
		Role:   middleware.GetRole(c),
	}
}

// Checkout converts the pending cart into a scheduled order. Works for
// both authenticated customers and guests.
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.checkoutService.Finalize(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListMine returns the caller's orders split into active and history
func (h *OrderHandler) ListMine(c *gin.Context) {
	resp, err := h.orderService.ListForUser(c.Request.Context(), actor(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get returns a single order visible to the caller
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.Get(c.Request.Context(), actor(c), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel cancels an order with a mandatory reason
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), actor(c), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// List returns the paginated order backlog for staff
func (h *OrderHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	result, err := h.orderService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateStatus moves an order along its fulfillment lifecycle
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdatePaymentStatus records a payment settlement
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req orderapp.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.orderService.UpdatePaymentStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
