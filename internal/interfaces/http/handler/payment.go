package handler

import (
	"github.com/gin-gonic/gin"

	paymentapp "github.com/icepoint/backend/internal/application/payment"
)

// PaymentHandler handles online payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *paymentapp.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *paymentapp.Service) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePreference opens a hosted checkout session for an order awaiting
// online payment
func (h *PaymentHandler) CreatePreference(c *gin.Context) {
	var req paymentapp.CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.paymentService.CreatePreference(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, resp)
}

// Webhook acknowledges payment provider notifications. Settlement is
// reconciled separately by staff, so the body is logged and accepted.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var notification paymentapp.WebhookNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		h.BadRequest(c, "Invalid notification body")
		return
	}

	if err := h.paymentService.HandleWebhook(c.Request.Context(), notification); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, gin.H{"received": true})
}
