package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/icepoint/backend/internal/domain/fleet"
	"github.com/icepoint/backend/internal/domain/shared"
)

// GormCartRepository implements fleet.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart by its ID
func (r *GormCartRepository) FindByID(ctx context.Context, id int64) (*fleet.Cart, error) {
	var cart fleet.Cart
	if err := dbFromContext(ctx, r.db).First(&cart, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// FindByIDs returns the carts whose ids exist; unknown ids are skipped
func (r *GormCartRepository) FindByIDs(ctx context.Context, ids []int64) ([]fleet.Cart, error) {
	if len(ids) == 0 {
		return []fleet.Cart{}, nil
	}
	var carts []fleet.Cart
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// FindAll returns every cart ordered by label
func (r *GormCartRepository) FindAll(ctx context.Context) ([]fleet.Cart, error) {
	var carts []fleet.Cart
	if err := dbFromContext(ctx, r.db).Order("label ASC").Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// FindByStatus returns carts in a given status
func (r *GormCartRepository) FindByStatus(ctx context.Context, status fleet.CartStatus) ([]fleet.Cart, error) {
	var carts []fleet.Cart
	if err := dbFromContext(ctx, r.db).
		Where("status = ?", status).
		Order("label ASC").
		Find(&carts).Error; err != nil {
		return nil, err
	}
	return carts, nil
}

// Save creates or updates a cart
func (r *GormCartRepository) Save(ctx context.Context, cart *fleet.Cart) error {
	return dbFromContext(ctx, r.db).Save(cart).Error
}

// Delete removes a cart
func (r *GormCartRepository) Delete(ctx context.Context, id int64) error {
	result := dbFromContext(ctx, r.db).Delete(&fleet.Cart{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCartRepository implements fleet.CartRepository
var _ fleet.CartRepository = (*GormCartRepository)(nil)
