package identity

import (
	"github.com/icepoint/backend/internal/domain/shared"
)

// Address is a postal address owned by exactly one account. At most one
// address per account carries the Primary flag; the repository unmarks all
// siblings before a new primary is saved.
type Address struct {
	shared.BaseEntity
	UserID       string `gorm:"size:64;not null;index"`
	PostalCode   string `gorm:"size:12;not null"`
	Street       string `gorm:"size:200;not null"`
	Number       string `gorm:"size:20"`
	Complement   string `gorm:"size:100"`
	Neighborhood string `gorm:"size:100"`
	City         string `gorm:"size:100;not null"`
	State        string `gorm:"size:2;not null"`
	Primary      bool   `gorm:"not null;default:false;column:is_primary"`
}

// TableName sets the addresses table name
func (Address) TableName() string {
	return "addresses"
}

// NewAddress creates a new address for an account
func NewAddress(userID, postalCode, street, number, city, state string) (*Address, error) {
	if userID == "" {
		return nil, shared.NewValidationError("Address must belong to an account")
	}
	if street == "" || city == "" || state == "" {
		return nil, shared.NewValidationError("Street, city and state are required")
	}
	return &Address{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		PostalCode: postalCode,
		Street:     street,
		Number:     number,
		City:       city,
		State:      state,
	}, nil
}
