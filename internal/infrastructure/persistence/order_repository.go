package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/icepoint/backend/internal/domain/order"
	"github.com/icepoint/backend/internal/domain/shared"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID with items and allocated carts loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id int64) (*order.Order, error) {
	var o order.Order
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		Preload("Carts").
		First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindPendingByCustomer returns the customer's open cart
func (r *GormOrderRepository) FindPendingByCustomer(ctx context.Context, customerID string) (*order.Order, error) {
	var o order.Order
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		Preload("Carts").
		Where("customer_id = ? AND status = ?", customerID, order.StatusPending).
		Order("created_at DESC").
		First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindNonPendingByEmail returns the customer's placed orders, newest first
func (r *GormOrderRepository) FindNonPendingByEmail(ctx context.Context, email string) ([]order.Order, error) {
	var orders []order.Order
	if err := dbFromContext(ctx, r.db).
		Preload("Items").
		Preload("Carts").
		Where("LOWER(customer_email) = ? AND status <> ?", strings.ToLower(email), order.StatusPending).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds orders with filtering and returns the unpaginated total
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, int64, error) {
	db := dbFromContext(ctx, r.db)

	var total int64
	countQuery := r.applyFilterWithoutPagination(db.Model(&order.Order{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []order.Order
	query := r.applyFilter(db.Model(&order.Order{}), filter).
		Preload("Items").
		Preload("Carts")
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save creates or updates an order. The line-item set is replaced wholesale
// and the cart allocation is synced to the aggregate's current set.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return dbFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items", "Carts").Save(o).Error; err != nil {
			return err
		}

		// Replace items: delete removed ones, then save the current set
		currentItemIDs := make([]int64, 0, len(o.Items))
		for i := range o.Items {
			if o.Items[i].ID != 0 {
				currentItemIDs = append(currentItemIDs, o.Items[i].ID)
			}
		}
		del := tx.Where("order_id = ?", o.ID)
		if len(currentItemIDs) > 0 {
			del = del.Where("id NOT IN ?", currentItemIDs)
		}
		if err := del.Delete(&order.Item{}).Error; err != nil {
			return err
		}
		for i := range o.Items {
			o.Items[i].OrderID = o.ID
			if err := tx.Save(&o.Items[i]).Error; err != nil {
				return err
			}
		}

		// Sync the many-to-many cart allocation
		if err := tx.Model(o).Association("Carts").Replace(o.Carts); err != nil {
			return err
		}
		return nil
	})
}

// BusyCartIDs returns ids of carts allocated to any non-cancelled order whose
// scheduled date falls inside [from, to]
func (r *GormOrderRepository) BusyCartIDs(ctx context.Context, from, to time.Time) ([]int64, error) {
	var ids []int64
	if err := dbFromContext(ctx, r.db).
		Table("order_carts").
		Select("DISTINCT order_carts.cart_id").
		Joins("JOIN orders ON orders.id = order_carts.order_id").
		Where("orders.status NOT IN ?", []order.Status{order.StatusCancelled, order.StatusPending}).
		Where("orders.scheduled_date BETWEEN ? AND ?", from, to).
		Pluck("order_carts.cart_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("customer_name ILIKE ? OR customer_email ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "scheduled_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("scheduled_date = ?", t)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("scheduled_date >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("scheduled_date <= ?", t)
			}
		case "delivery_method":
			query = query.Where("delivery_method = ?", value)
		case "payment_status":
			query = query.Where("payment_status = ?", value)
		}
	}

	return query
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
