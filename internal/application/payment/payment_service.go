// Package payment drives the hosted checkout flow for online orders.
package payment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/payment"
)

// CreatePreferenceRequest starts a hosted checkout for an order
type CreatePreferenceRequest struct {
	OrderID int64 `json:"orderId" binding:"required"`
}

// PreferenceResponse carries the redirect target for the storefront
type PreferenceResponse struct {
	PreferenceID string `json:"preferenceId"`
	InitPoint    string `json:"initPoint"`
}

// WebhookNotification is the gateway's asynchronous payment notification
type WebhookNotification struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Service creates checkout sessions and receives gateway notifications
type Service struct {
	orderRepo order.Repository
	gateway   payment.Gateway
	uow       shared.UnitOfWork
	logger    *zap.Logger
}

// NewService creates a new payment Service
func NewService(orderRepo order.Repository, gateway payment.Gateway, uow shared.UnitOfWork, logger *zap.Logger) *Service {
	return &Service{orderRepo: orderRepo, gateway: gateway, uow: uow, logger: logger}
}

// CreatePreference builds a hosted checkout session for an order awaiting
// payment and stores the session id as the payment reference
func (s *Service) CreatePreference(ctx context.Context, req CreatePreferenceRequest) (*PreferenceResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Order not found")
		}
		return nil, err
	}

	if o.PaymentMethod != order.PaymentOnline {
		return nil, shared.NewInvalidStateError("Order is not paid online")
	}
	if o.Status != order.StatusAwaitingPayment {
		return nil, shared.NewInvalidStateError("Order is not awaiting payment")
	}

	pref, err := s.gateway.CreatePreference(ctx, o)
	if err != nil {
		s.logger.Error("failed to create payment preference",
			zap.Int64("order_id", o.ID), zap.Error(err))
		return nil, shared.NewExternalServiceError("Payment provider is unavailable")
	}

	err = s.uow.Do(ctx, func(ctx context.Context) error {
		o.SetPaymentReference(pref.ID)
		return s.orderRepo.Save(ctx, o)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment preference created",
		zap.Int64("order_id", o.ID), zap.String("preference_id", pref.ID))

	return &PreferenceResponse{PreferenceID: pref.ID, InitPoint: pref.InitPoint}, nil
}

// HandleWebhook acknowledges a gateway notification. Payment confirmation is
// reconciled by staff through the payment status endpoint, so the webhook is
// logged and accepted without acting on it.
func (s *Service) HandleWebhook(ctx context.Context, notification WebhookNotification) error {
	s.logger.Info("payment webhook received",
		zap.String("type", notification.Type),
		zap.String("action", notification.Action),
		zap.String("resource_id", notification.Data.ID),
	)
	return nil
}
