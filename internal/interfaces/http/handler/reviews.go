package handler

import (
	"github.com/gin-gonic/gin"

	reviewsapp "github.com/icepoint/backend/internal/application/reviews"
)

// ReviewsHandler serves the shop's public listing reviews
type ReviewsHandler struct {
	BaseHandler
	reviewService *reviewsapp.Service
}

// NewReviewsHandler creates a new ReviewsHandler
func NewReviewsHandler(reviewService *reviewsapp.Service) *ReviewsHandler {
	return &ReviewsHandler{reviewService: reviewService}
}

// Get returns the cached place summary and reviews
func (h *ReviewsHandler) Get(c *gin.Context) {
	summary, err := h.reviewService.Get(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, summary)
}
