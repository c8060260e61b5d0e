package persistence

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/shared"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by the provider-issued account id
func (r *GormUserRepository) FindByID(ctx context.Context, id string) (*identity.User, error) {
	var user identity.User
	if err := dbFromContext(ctx, r.db).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email, case-insensitively
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var user identity.User
	if err := dbFromContext(ctx, r.db).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return dbFromContext(ctx, r.db).Save(user).Error
}

// Ensure GormUserRepository implements identity.UserRepository
var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormAddressRepository implements identity.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// FindByID finds an address by its ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id int64) (*identity.Address, error) {
	var addr identity.Address
	if err := dbFromContext(ctx, r.db).First(&addr, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &addr, nil
}

// FindByUser returns the account's addresses, primary first
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID string) ([]identity.Address, error) {
	var addrs []identity.Address
	if err := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("is_primary DESC, created_at ASC").
		Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

// FindPrimaryByUser returns the account's primary address
func (r *GormAddressRepository) FindPrimaryByUser(ctx context.Context, userID string) (*identity.Address, error) {
	var addr identity.Address
	if err := dbFromContext(ctx, r.db).
		Where("user_id = ? AND is_primary = ?", userID, true).
		First(&addr).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &addr, nil
}

// Save persists the address. A primary save unmarks the account's other
// primaries in the same transaction so at most one remains.
func (r *GormAddressRepository) Save(ctx context.Context, addr *identity.Address) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if addr.Primary {
			q := tx.Model(&identity.Address{}).Where("user_id = ?", addr.UserID)
			if addr.ID != 0 {
				q = q.Where("id <> ?", addr.ID)
			}
			if err := q.Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(addr).Error
	})
}

// Delete removes an address owned by the given account
func (r *GormAddressRepository) Delete(ctx context.Context, userID string, id int64) error {
	result := dbFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Delete(&identity.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByUser counts the account's addresses
func (r *GormAddressRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&identity.Address{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormAddressRepository implements identity.AddressRepository
var _ identity.AddressRepository = (*GormAddressRepository)(nil)
