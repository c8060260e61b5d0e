// Package catalog hosts the product and category management workflows.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/icepoint/backend/internal/domain/catalog"
)

// NutritionInput mirrors the nutrition facts block of the product form
type NutritionInput struct {
	ServingSize   string `json:"servingSize"`
	Calories      string `json:"calories"`
	Carbohydrates string `json:"carbohydrates"`
	Proteins      string `json:"proteins"`
	TotalFat      string `json:"totalFat"`
	Sodium        string `json:"sodium"`
}

func (n *NutritionInput) toDomain() catalog.NutritionInfo {
	if n == nil {
		return catalog.NutritionInfo{}
	}
	return catalog.NutritionInfo{
		ServingSize:   n.ServingSize,
		Calories:      n.Calories,
		Carbohydrates: n.Carbohydrates,
		Proteins:      n.Proteins,
		TotalFat:      n.TotalFat,
		Sodium:        n.Sodium,
	}
}

// CreateProductRequest creates a catalog product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Available   *bool           `json:"available"`
	Highlight   bool            `json:"highlight"`
	Ingredients string          `json:"ingredients"`
	Allergens   string          `json:"allergens"`
	Nutrition   *NutritionInput `json:"nutrition"`
	CategoryID  *int64          `json:"categoryId"`
}

// UpdateProductRequest partially updates a product; nil fields are untouched
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Available   *bool            `json:"available"`
	Highlight   *bool            `json:"highlight"`
	Ingredients *string          `json:"ingredients"`
	Allergens   *string          `json:"allergens"`
	Nutrition   *NutritionInput  `json:"nutrition"`
	CategoryID  *int64           `json:"categoryId"`
}

// ProductResponse is the product wire shape
type ProductResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Price       decimal.Decimal       `json:"price"`
	Available   bool                  `json:"available"`
	Highlight   bool                  `json:"highlight"`
	Ingredients string                `json:"ingredients,omitempty"`
	Allergens   string                `json:"allergens,omitempty"`
	Nutrition   catalog.NutritionInfo `json:"nutrition"`
	ImageURL    string                `json:"imageUrl,omitempty"`
	CategoryID  *int64                `json:"categoryId,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// ToProductResponse maps a product to its wire shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Available:   p.Available,
		Highlight:   p.Highlight,
		Ingredients: p.Ingredients,
		Allergens:   p.Allergens,
		Nutrition:   p.Nutrition,
		ImageURL:    p.ImageURL,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// CreateCategoryRequest creates a storefront category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// UpdateCategoryRequest partially updates a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Active      *bool   `json:"active"`
}

// CategoryResponse is the category wire shape
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToCategoryResponse maps a category to its wire shape
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}
