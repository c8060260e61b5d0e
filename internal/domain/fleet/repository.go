package fleet

import "context"

// CartRepository defines persistence operations for physical carts
type CartRepository interface {
	FindByID(ctx context.Context, id int64) (*Cart, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Cart, error)
	FindAll(ctx context.Context) ([]Cart, error)
	FindByStatus(ctx context.Context, status CartStatus) ([]Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, id int64) error
}
