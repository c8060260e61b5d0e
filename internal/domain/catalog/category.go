package catalog

import (
	"time"

	"github.com/icepoint/backend/internal/domain/shared"
)

// Category groups products on the storefront
type Category struct {
	shared.BaseEntity
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName sets the categories table name
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string) (*Category, error) {
	if name == "" {
		return nil, shared.NewValidationError("Category name cannot be empty")
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		Active:      true,
	}, nil
}

// SetActive toggles whether the category is shown on the storefront
func (c *Category) SetActive(active bool) {
	c.Active = active
	c.UpdatedAt = time.Now()
}
