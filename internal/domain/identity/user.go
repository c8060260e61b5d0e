package identity

import (
	"strings"
	"time"

	"github.com/icepoint/backend/internal/domain/shared"
)

// Role represents the access level of an account
type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleAdmin    Role = "ADMIN"
)

// IsValid checks if the role is a valid Role
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// IsElevated reports whether the role grants staff-level access
func (r Role) IsElevated() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User represents a customer account. The primary key is the opaque subject id
// issued by the external identity provider; the local record only mirrors
// profile data.
type User struct {
	ID        string `gorm:"primaryKey;size:64"`
	Name      string `gorm:"size:200;not null"`
	Email     string `gorm:"size:200;uniqueIndex;not null"`
	Phone     string `gorm:"size:30"`
	TaxID     string `gorm:"size:20;column:tax_id"`
	BirthDate *time.Time
	Role      Role   `gorm:"size:20;not null;default:'CUSTOMER'"`
	AvatarURL string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the users table name
func (User) TableName() string {
	return "users"
}

// NewUser creates a new account record for a provider subject
func NewUser(id, name, email string) (*User, error) {
	if id == "" {
		return nil, shared.NewValidationError("User id cannot be empty")
	}
	if email == "" {
		return nil, shared.NewValidationError("User email cannot be empty")
	}
	now := time.Now()
	return &User{
		ID:        id,
		Name:      name,
		Email:     strings.ToLower(email),
		Role:      RoleCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// EmailMatches compares emails case-insensitively
func (u *User) EmailMatches(email string) bool {
	return email != "" && strings.EqualFold(u.Email, email)
}

// UpdateProfile overwrites the mutable profile fields
func (u *User) UpdateProfile(name, phone, taxID string, birthDate *time.Time) {
	if name != "" {
		u.Name = name
	}
	u.Phone = phone
	u.TaxID = taxID
	if birthDate != nil {
		u.BirthDate = birthDate
	}
	u.UpdatedAt = time.Now()
}

// SetAvatar stores the public URL of the uploaded avatar
func (u *User) SetAvatar(url string) {
	u.AvatarURL = url
	u.UpdatedAt = time.Now()
}
