package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/calendar"
	"github.com/icepoint/backend/internal/infrastructure/mail"
)

// CancelledHandler emails the customer and removes the calendar entry when
// an order is cancelled
type CancelledHandler struct {
	orderRepo order.Repository
	mailer    mail.Sender
	scheduler calendar.Scheduler
	logger    *zap.Logger
}

// NewCancelledHandler creates a new CancelledHandler
func NewCancelledHandler(orderRepo order.Repository, mailer mail.Sender, scheduler calendar.Scheduler, logger *zap.Logger) *CancelledHandler {
	return &CancelledHandler{
		orderRepo: orderRepo,
		mailer:    mailer,
		scheduler: scheduler,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CancelledHandler) EventTypes() []string {
	return []string{order.EventCancelled}
}

// Handle sends the cancellation email and removes the calendar entry.
// Both side effects are independent and best effort.
func (h *CancelledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	cancelled, ok := event.(*order.CancelledEvent)
	if !ok {
		return nil
	}

	o, err := h.orderRepo.FindByID(ctx, cancelled.OrderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", cancelled.OrderID, err)
	}

	h.sendCancellationEmail(ctx, o)
	h.removeAppointment(ctx, o, cancelled.CalendarEventID)
	return nil
}

func (h *CancelledHandler) sendCancellationEmail(ctx context.Context, o *order.Order) {
	if o.CustomerEmail == "" {
		return
	}
	html, err := render(cancellationTmpl, buildEmailData(o))
	if err != nil {
		h.logger.Error("failed to render cancellation email", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}
	err = h.mailer.Send(ctx, mail.Message{
		To:      []string{o.CustomerEmail},
		Subject: fmt.Sprintf("Encomenda #%d cancelada", o.ID),
		HTML:    html,
	})
	if err != nil {
		h.logger.Error("failed to send cancellation email",
			zap.Int64("order_id", o.ID), zap.String("to", o.CustomerEmail), zap.Error(err))
	}
}

func (h *CancelledHandler) removeAppointment(ctx context.Context, o *order.Order, eventID string) {
	if eventID == "" {
		eventID = o.CalendarEventID
	}
	if eventID == "" {
		return
	}
	if err := h.scheduler.DeleteEvent(ctx, eventID); err != nil {
		h.logger.Error("failed to delete calendar event",
			zap.Int64("order_id", o.ID), zap.String("event_id", eventID), zap.Error(err))
		return
	}

	o.ClearCalendarEvent()
	if err := h.orderRepo.Save(ctx, o); err != nil {
		h.logger.Error("failed to clear calendar event id", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}
