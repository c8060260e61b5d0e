package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/calendar"
	"github.com/icepoint/backend/internal/infrastructure/mail"
)

// appointmentDuration is how long a booked slot blocks the shared calendar
const appointmentDuration = 2 * time.Hour

// CheckedOutHandler emails the customer and the staff list and books the
// appointment on the shared calendar when an order is placed
type CheckedOutHandler struct {
	orderRepo order.Repository
	mailer    mail.Sender
	scheduler calendar.Scheduler
	staffList []string
	logger    *zap.Logger
}

// NewCheckedOutHandler creates a new CheckedOutHandler
func NewCheckedOutHandler(
	orderRepo order.Repository,
	mailer mail.Sender,
	scheduler calendar.Scheduler,
	staffList []string,
	logger *zap.Logger,
) *CheckedOutHandler {
	return &CheckedOutHandler{
		orderRepo: orderRepo,
		mailer:    mailer,
		scheduler: scheduler,
		staffList: staffList,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CheckedOutHandler) EventTypes() []string {
	return []string{order.EventCheckedOut}
}

// Handle reloads the order and runs each side effect independently, so a
// failed email never blocks the calendar booking and vice versa
func (h *CheckedOutHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	checkedOut, ok := event.(*order.CheckedOutEvent)
	if !ok {
		return nil
	}

	o, err := h.orderRepo.FindByID(ctx, checkedOut.OrderID)
	if err != nil {
		return fmt.Errorf("load order %d: %w", checkedOut.OrderID, err)
	}

	h.sendCustomerEmail(ctx, o)
	h.sendStaffEmail(ctx, o)
	h.bookAppointment(ctx, o)
	return nil
}

func (h *CheckedOutHandler) sendCustomerEmail(ctx context.Context, o *order.Order) {
	if o.CustomerEmail == "" {
		return
	}
	html, err := render(confirmationTmpl, buildEmailData(o))
	if err != nil {
		h.logger.Error("failed to render confirmation email", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}
	err = h.mailer.Send(ctx, mail.Message{
		To:      []string{o.CustomerEmail},
		Subject: fmt.Sprintf("Encomenda #%d confirmada", o.ID),
		HTML:    html,
	})
	if err != nil {
		h.logger.Error("failed to send confirmation email",
			zap.Int64("order_id", o.ID), zap.String("to", o.CustomerEmail), zap.Error(err))
	}
}

func (h *CheckedOutHandler) sendStaffEmail(ctx context.Context, o *order.Order) {
	if len(h.staffList) == 0 {
		return
	}
	html, err := render(staffTmpl, buildEmailData(o))
	if err != nil {
		h.logger.Error("failed to render staff email", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}
	err = h.mailer.Send(ctx, mail.Message{
		To:      h.staffList,
		Subject: fmt.Sprintf("Nova encomenda #%d", o.ID),
		HTML:    html,
	})
	if err != nil {
		h.logger.Error("failed to send staff email", zap.Int64("order_id", o.ID), zap.Error(err))
	}
}

// bookAppointment creates the calendar entry and stores its id back on the
// order so a later cancellation can remove it
func (h *CheckedOutHandler) bookAppointment(ctx context.Context, o *order.Order) {
	start, ok := appointmentStart(o)
	if !ok {
		h.logger.Warn("order has no usable schedule, skipping calendar entry", zap.Int64("order_id", o.ID))
		return
	}

	location := "Retirada no ponto de venda"
	if o.DeliveryMethod == order.DeliveryDelivery {
		location = formatAddress(o.DeliveryAddress)
	}

	eventID, err := h.scheduler.CreateEvent(ctx, calendar.Event{
		Title:       fmt.Sprintf("Encomenda #%d - %s", o.ID, o.CustomerName),
		Description: fmt.Sprintf("Pedido de %s (%s), total R$ %s", o.CustomerName, o.CustomerEmail, o.Total.StringFixed(2)),
		Location:    location,
		Start:       start,
		End:         start.Add(appointmentDuration),
	})
	if err != nil {
		h.logger.Error("failed to create calendar event", zap.Int64("order_id", o.ID), zap.Error(err))
		return
	}

	o.SetCalendarEvent(eventID)
	if err := h.orderRepo.Save(ctx, o); err != nil {
		h.logger.Error("failed to store calendar event id",
			zap.Int64("order_id", o.ID), zap.String("event_id", eventID), zap.Error(err))
	}
}

// appointmentStart combines the scheduled date and HH:MM slot
func appointmentStart(o *order.Order) (time.Time, bool) {
	if o.ScheduledDate == nil {
		return time.Time{}, false
	}
	day := *o.ScheduledDate
	slot, err := time.Parse("15:04", o.ScheduledTime)
	if err != nil {
		return day, true
	}
	return time.Date(day.Year(), day.Month(), day.Day(), slot.Hour(), slot.Minute(), 0, 0, day.Location()), true
}
