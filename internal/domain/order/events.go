package order

import "github.com/icepoint/backend/internal/domain/shared"

// Event types published by the order aggregate
const (
	EventCheckedOut = "order.checked_out"
	EventCancelled  = "order.cancelled"
)

// CheckedOutEvent is published when a pending cart becomes a confirmed or
// awaiting-payment order. Notification handlers reload the aggregate by id.
type CheckedOutEvent struct {
	shared.BaseDomainEvent
	OrderID       int64  `json:"order_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Status        Status `json:"status"`
}

// NewCheckedOutEvent creates a CheckedOutEvent from the finalized order
func NewCheckedOutEvent(o *Order) *CheckedOutEvent {
	return &CheckedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCheckedOut, "Order", o.ID),
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Status:          o.Status,
	}
}

// CancelledEvent is published when an order is cancelled. It carries the
// calendar event id so the external entry can be removed best-effort.
type CancelledEvent struct {
	shared.BaseDomainEvent
	OrderID         int64  `json:"order_id"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	Reason          string `json:"reason"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`
}

// NewCancelledEvent creates a CancelledEvent from the cancelled order
func NewCancelledEvent(o *Order) *CancelledEvent {
	return &CancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCancelled, "Order", o.ID),
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Reason:          o.CancelReason,
		CalendarEventID: o.CalendarEventID,
	}
}
