package catalog

import (
	"context"

	"github.com/icepoint/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	// FindByIDs returns the products whose ids are present; missing ids are
	// simply absent from the result, never an error.
	FindByIDs(ctx context.Context, ids []int64) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	FindAvailable(ctx context.Context, filter shared.Filter) ([]Product, int64, error)
	FindHighlighted(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository defines persistence operations for categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindAll(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	// Delete removes the category and nulls the category reference of its
	// products (explicit set-null, exercised by tests).
	Delete(ctx context.Context, id int64) error
}
