package fleet

import (
	"time"

	"github.com/icepoint/backend/internal/domain/shared"
)

// CartStatus represents the operational status of a physical cart
type CartStatus string

const (
	CartStatusAvailable   CartStatus = "AVAILABLE"
	CartStatusMaintenance CartStatus = "MAINTENANCE"
	CartStatusRetired     CartStatus = "RETIRED"
)

// IsValid checks if the status is a valid CartStatus
func (s CartStatus) IsValid() bool {
	switch s {
	case CartStatusAvailable, CartStatusMaintenance, CartStatusRetired:
		return true
	}
	return false
}

// String returns the string representation of CartStatus
func (s CartStatus) String() string {
	return string(s)
}

// Cart represents a physical ice cream cart that can be allocated to orders.
// Allocation conflicts are resolved per scheduled date, see the availability service.
type Cart struct {
	shared.BaseEntity
	Label    string     `gorm:"size:100;not null"`
	Capacity int        `gorm:"not null"`
	Color    string     `gorm:"size:50"`
	Status   CartStatus `gorm:"size:20;not null;default:'AVAILABLE'"`
}

// TableName sets the carts table name
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates a new physical cart
func NewCart(label string, capacity int, color string) (*Cart, error) {
	if label == "" {
		return nil, shared.NewValidationError("Cart label cannot be empty")
	}
	if capacity <= 0 {
		return nil, shared.NewValidationError("Cart capacity must be positive")
	}
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		Label:      label,
		Capacity:   capacity,
		Color:      color,
		Status:     CartStatusAvailable,
	}, nil
}

// ChangeStatus moves the cart to a new operational status
func (c *Cart) ChangeStatus(status CartStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("Invalid cart status")
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	return nil
}

// IsOperational reports whether the cart can be offered for allocation
func (c *Cart) IsOperational() bool {
	return c.Status == CartStatusAvailable
}
