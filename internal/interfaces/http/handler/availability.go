package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/icepoint/backend/internal/application/order"
)

// AvailabilityHandler answers which physical carts are free on a date
type AvailabilityHandler struct {
	BaseHandler
	availabilityService *orderapp.AvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availabilityService *orderapp.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityService: availabilityService}
}

// Check reports fleet availability for the requested date
func (h *AvailabilityHandler) Check(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		h.BadRequest(c, "Query parameter 'date' is required")
		return
	}

	resp, err := h.availabilityService.Check(c.Request.Context(), dateStr)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, resp)
}
