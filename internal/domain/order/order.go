package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle status of an order.
// A PENDING order is the customer's open shopping cart.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusConfirmed       Status = "CONFIRMED"
	StatusAwaitingPayment Status = "AWAITING_PAYMENT"
	StatusInPreparation   Status = "IN_PREPARATION"
	StatusOutForDelivery  Status = "OUT_FOR_DELIVERY"
	StatusDelivered       Status = "DELIVERED"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusAwaitingPayment, StatusInPreparation,
		StatusOutForDelivery, StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return s.IsCancellable()
	}
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusAwaitingPayment
	case StatusAwaitingPayment:
		return target == StatusConfirmed || target == StatusInPreparation
	case StatusConfirmed:
		return target == StatusInPreparation
	case StatusInPreparation:
		return target == StatusOutForDelivery
	case StatusOutForDelivery:
		return target == StatusDelivered
	case StatusDelivered:
		return target == StatusCompleted
	}
	return false
}

// IsCancellable reports whether an order in this status may still be cancelled.
// Terminal-success states and an already cancelled order may not.
func (s Status) IsCancellable() bool {
	switch s {
	case StatusDelivered, StatusCompleted, StatusCancelled:
		return false
	}
	return true
}

// IsFinal reports whether the status ends the order's life
func (s Status) IsFinal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// DeliveryMethod is how the order reaches the customer
type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "PICKUP"
	DeliveryDelivery DeliveryMethod = "DELIVERY"
)

// IsValid checks if the delivery method is known
func (m DeliveryMethod) IsValid() bool {
	return m == DeliveryPickup || m == DeliveryDelivery
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentPix    PaymentMethod = "PIX"
	PaymentCash   PaymentMethod = "CASH"
	PaymentOnline PaymentMethod = "ONLINE"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	return m == PaymentPix || m == PaymentCash || m == PaymentOnline
}

// PaymentStatus tracks payment separately from the order lifecycle
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// IsValid checks if the payment status belongs to the closed two-value set
func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// Item is a line item: a quantity plus the unit price frozen at write time.
// The snapshot is never re-read from the catalog after it is taken.
type Item struct {
	shared.BaseEntity
	OrderID   int64           `gorm:"not null;index"`
	ProductID int64           `gorm:"not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

// TableName sets the order items table name
func (Item) TableName() string {
	return "order_items"
}

// NewItem creates a line item with the price snapshot taken now
func NewItem(productID int64, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	if productID <= 0 {
		return nil, shared.NewValidationError("Item product id must be positive")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("Item quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewValidationError("Item unit price cannot be negative")
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
	}, nil
}

// Subtotal returns quantity times the frozen unit price
func (i *Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Address is the postal address snapshot copied onto delivery orders
type Address struct {
	PostalCode   string `gorm:"size:12;column:delivery_postal_code"`
	Street       string `gorm:"size:200;column:delivery_street"`
	Number       string `gorm:"size:20;column:delivery_number"`
	Complement   string `gorm:"size:100;column:delivery_complement"`
	Neighborhood string `gorm:"size:100;column:delivery_neighborhood"`
	City         string `gorm:"size:100;column:delivery_city"`
	State        string `gorm:"size:2;column:delivery_state"`
}

// Merge overwrites only the fields the incoming snapshot actually carries,
// so a prior write is not zeroed by a partial payload.
func (a *Address) Merge(in Address) {
	if in.PostalCode != "" {
		a.PostalCode = in.PostalCode
	}
	if in.Street != "" {
		a.Street = in.Street
	}
	if in.Number != "" {
		a.Number = in.Number
	}
	if in.Complement != "" {
		a.Complement = in.Complement
	}
	if in.Neighborhood != "" {
		a.Neighborhood = in.Neighborhood
	}
	if in.City != "" {
		a.City = in.City
	}
	if in.State != "" {
		a.State = in.State
	}
}

// Order is the encomenda aggregate root. It spans the whole lifecycle, from
// open shopping cart (PENDING) to a completed or cancelled scheduled order.
type Order struct {
	shared.BaseAggregateRoot
	// CustomerID is the owning account; nil for guest checkout
	CustomerID *string `gorm:"size:64;index"`

	// Customer snapshot captured at checkout, independent of the account record
	CustomerName      string `gorm:"size:200"`
	CustomerEmail     string `gorm:"size:200;index"`
	CustomerPhone     string `gorm:"size:30"`
	CustomerTaxID     string `gorm:"size:20;column:customer_tax_id"`
	CustomerBirthDate *time.Time

	// Scheduling: requested appointment slot, independent of CreatedAt
	ScheduledDate *time.Time `gorm:"type:date;index"`
	ScheduledTime string     `gorm:"size:5"`

	DeliveryMethod  DeliveryMethod `gorm:"size:10"`
	DeliveryAddress Address        `gorm:"embedded"`

	// Financials are stored, not derived, to reflect price-at-order-time
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	DeliveryFee decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Total       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`

	PaymentMethod    PaymentMethod `gorm:"size:10"`
	PaymentStatus    PaymentStatus `gorm:"size:10;not null;default:'PENDING'"`
	PaymentReference string        `gorm:"size:100"`

	Status       Status `gorm:"size:20;not null;index"`
	CancelReason string `gorm:"size:500"`

	// CalendarEventID is the opaque id of the external calendar entry, empty
	// until the event is created
	CalendarEventID string `gorm:"size:200"`

	Items []Item       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Carts []fleet.Cart `gorm:"many2many:order_carts;"`
}

// TableName sets the orders table name
func (Order) TableName() string {
	return "orders"
}

// NewPendingOrder creates a fresh open cart for a customer (or a guest when
// customerID is empty) with zero totals
func NewPendingOrder(customerID string) *Order {
	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Subtotal:          decimal.Zero,
		DeliveryFee:       decimal.Zero,
		Discount:          decimal.Zero,
		Total:             decimal.Zero,
		PaymentStatus:     PaymentStatusPending,
		Status:            StatusPending,
		Items:             make([]Item, 0),
	}
	if customerID != "" {
		o.CustomerID = &customerID
	}
	return o
}

// ReplaceItems swaps the whole line-item set atomically. Duplicate product ids
// are merged by summing quantities; the first occurrence's price snapshot wins.
// The subtotal and total are recomputed from the new set.
func (o *Order) ReplaceItems(items []Item) error {
	merged := make([]Item, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return shared.NewValidationError("Item quantity must be positive")
		}
		if pos, ok := index[item.ProductID]; ok {
			merged[pos].Quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(merged)
		item.OrderID = o.ID
		merged = append(merged, item)
	}

	o.Items = merged
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// SetCustomerSnapshot overwrites the denormalized customer fields. Later
// account changes never mutate historical orders.
func (o *Order) SetCustomerSnapshot(name, email, phone, taxID string, birthDate *time.Time) {
	if name != "" {
		o.CustomerName = name
	}
	if email != "" {
		o.CustomerEmail = strings.ToLower(email)
	}
	if phone != "" {
		o.CustomerPhone = phone
	}
	if taxID != "" {
		o.CustomerTaxID = taxID
	}
	if birthDate != nil {
		o.CustomerBirthDate = birthDate
	}
	o.UpdatedAt = time.Now()
}

// Schedule sets the requested appointment slot
func (o *Order) Schedule(date time.Time, timeSlot string) error {
	if date.IsZero() {
		return shared.NewValidationError("Scheduled date is required")
	}
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	o.ScheduledDate = &day
	o.ScheduledTime = timeSlot
	o.UpdatedAt = time.Now()
	return nil
}

// SetDeliveryMethod sets how the order reaches the customer
func (o *Order) SetDeliveryMethod(method DeliveryMethod) error {
	if !method.IsValid() {
		return shared.NewValidationError("Invalid delivery method")
	}
	o.DeliveryMethod = method
	o.UpdatedAt = time.Now()
	return nil
}

// SetDeliveryAddress merges the address snapshot from the checkout payload
func (o *Order) SetDeliveryAddress(addr Address) {
	o.DeliveryAddress.Merge(addr)
	o.UpdatedAt = time.Now()
}

// SetPaymentMethod sets how the customer pays
func (o *Order) SetPaymentMethod(method PaymentMethod) error {
	if !method.IsValid() {
		return shared.NewValidationError("Invalid payment method")
	}
	o.PaymentMethod = method
	o.UpdatedAt = time.Now()
	return nil
}

// AllocateCarts attaches the resolved set of physical carts to the order
func (o *Order) AllocateCarts(carts []fleet.Cart) {
	o.Carts = carts
	o.UpdatedAt = time.Now()
}

// ApplyCharges sets the delivery fee and discount and recomputes the total
func (o *Order) ApplyCharges(fee, discount decimal.Decimal) error {
	if fee.IsNegative() || discount.IsNegative() {
		return shared.NewValidationError("Fee and discount cannot be negative")
	}
	o.DeliveryFee = fee
	o.Discount = discount
	o.recalculateTotals()
	o.UpdatedAt = time.Now()
	return nil
}

// CheckoutStatus resolves the post-checkout status for a payment method:
// online payments await the gateway, everything else confirms immediately.
func CheckoutStatus(method PaymentMethod) Status {
	if method == PaymentOnline {
		return StatusAwaitingPayment
	}
	return StatusConfirmed
}

// Finalize transitions the open cart into its checkout outcome status
func (o *Order) Finalize() error {
	target := CheckoutStatus(o.PaymentMethod)
	if o.Status != StatusPending {
		return shared.NewConflictError(fmt.Sprintf("Cannot finalize order in %s status", o.Status))
	}
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now
	o.AddDomainEvent(NewCheckedOutEvent(o))
	return nil
}

// TransitionTo moves the order to a new lifecycle status, rejecting
// transitions the state machine does not permit
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return shared.NewValidationError("Invalid order status")
	}
	if target == StatusCancelled {
		return shared.NewValidationError("Use Cancel to cancel an order")
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewConflictError(fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel cancels the order with a mandatory reason. Delivered, completed and
// already cancelled orders reject the attempt as a conflict.
func (o *Order) Cancel(reason string) error {
	if o.Status == StatusCancelled {
		return shared.NewConflictError("Order is already cancelled")
	}
	if !o.Status.IsCancellable() {
		return shared.NewConflictError(fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewValidationError("Cancel reason is required")
	}

	o.Status = StatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewCancelledEvent(o))
	return nil
}

// SetPaymentStatus updates the payment status, restricted to the closed set
func (o *Order) SetPaymentStatus(status PaymentStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid payment status")
	}
	o.PaymentStatus = status
	o.UpdatedAt = time.Now()
	return nil
}

// SetPaymentReference stores the gateway's external reference id
func (o *Order) SetPaymentReference(ref string) {
	o.PaymentReference = ref
	o.UpdatedAt = time.Now()
}

// SetCalendarEvent stores the external calendar entry id
func (o *Order) SetCalendarEvent(eventID string) {
	o.CalendarEventID = eventID
	o.UpdatedAt = time.Now()
}

// ClearCalendarEvent forgets the external calendar entry
func (o *Order) ClearCalendarEvent() {
	o.CalendarEventID = ""
	o.UpdatedAt = time.Now()
}

// IsOwnedBy reports whether the acting identity owns this order, either by
// account id or by matching snapshot email
func (o *Order) IsOwnedBy(userID, email string) bool {
	if o.CustomerID != nil && userID != "" && *o.CustomerID == userID {
		return true
	}
	return email != "" && strings.EqualFold(o.CustomerEmail, email)
}

// IsPending reports whether the order is still an open cart
func (o *Order) IsPending() bool {
	return o.Status == StatusPending
}

// ItemCount returns the number of line items
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// recalculateTotals restores the invariant total = subtotal + fee - discount
func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for idx := range o.Items {
		subtotal = subtotal.Add(o.Items[idx].Subtotal())
	}
	o.Subtotal = subtotal
	o.Total = o.Subtotal.Add(o.DeliveryFee).Sub(o.Discount)
}
