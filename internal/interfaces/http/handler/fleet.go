package handler

import (
	"github.com/gin-gonic/gin"

	fleetapp "github.com/icepoint/backend/internal/application/fleet"
)

// FleetHandler handles physical cart administration endpoints
type FleetHandler struct {
	BaseHandler
	fleetService *fleetapp.Service
}

// NewFleetHandler creates a new FleetHandler
func NewFleetHandler(fleetService *fleetapp.Service) *FleetHandler {
	return &FleetHandler{fleetService: fleetService}
}

// List returns every cart in the fleet
func (h *FleetHandler) List(c *gin.Context) {
	carts, err := h.fleetService.List(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, carts)
}

// Get returns a single cart
func (h *FleetHandler) Get(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cart ID")
		return
	}

	cart, err := h.fleetService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cart)
}

// Create registers a new cart
func (h *FleetHandler) Create(c *gin.Context) {
	var req fleetapp.CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.fleetService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, cart)
}

// Update applies a partial update to a cart
func (h *FleetHandler) Update(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cart ID")
		return
	}

	var req fleetapp.UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.fleetService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, cart)
}

// Delete retires a cart from the fleet
func (h *FleetHandler) Delete(c *gin.Context) {
	id, err := getIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid cart ID")
		return
	}

	if err := h.fleetService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
