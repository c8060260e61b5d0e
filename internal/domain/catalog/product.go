package catalog

import (
	"time"

	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// NutritionInfo holds structured nutrition facts displayed on the storefront
type NutritionInfo struct {
	ServingSize   string `json:"serving_size,omitempty"`
	Calories      string `json:"calories,omitempty"`
	Carbohydrates string `json:"carbohydrates,omitempty"`
	Proteins      string `json:"proteins,omitempty"`
	TotalFat      string `json:"total_fat,omitempty"`
	Sodium        string `json:"sodium,omitempty"`
}

// Product represents a catalog product
type Product struct {
	shared.BaseEntity
	Name        string          `gorm:"size:200;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Available   bool            `gorm:"not null;default:true"`
	Highlight   bool            `gorm:"not null;default:false"`
	Ingredients string          `gorm:"type:text"`
	Allergens   string          `gorm:"type:text"`
	Nutrition   NutritionInfo   `gorm:"serializer:json"`
	ImageURL    string          `gorm:"size:500"`
	// CategoryID is nulled out when the category is deleted
	CategoryID *int64
}

// TableName sets the products table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("Product price cannot be negative")
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Description: description,
		Price:       price,
		Available:   true,
	}, nil
}

// UpdatePrice changes the catalog price. Orders that already left PENDING
// keep their frozen line-item snapshots regardless of this change.
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewValidationError("Product price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}

// SetAvailability toggles whether the product can be added to carts
func (p *Product) SetAvailability(available bool) {
	p.Available = available
	p.UpdatedAt = time.Now()
}

// SetHighlight toggles the storefront highlight flag
func (p *Product) SetHighlight(highlight bool) {
	p.Highlight = highlight
	p.UpdatedAt = time.Now()
}

// AssignCategory links the product to a category
func (p *Product) AssignCategory(categoryID int64) {
	p.CategoryID = &categoryID
	p.UpdatedAt = time.Now()
}

// ClearCategory detaches the product from its category
func (p *Product) ClearCategory() {
	p.CategoryID = nil
	p.UpdatedAt = time.Now()
}

// SetImage stores the public URL of the uploaded cover image
func (p *Product) SetImage(url string) {
	p.ImageURL = url
	p.UpdatedAt = time.Now()
}
