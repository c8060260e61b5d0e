package order

import (
	"context"
	"time"

	"github.com/icepoint/backend/internal/domain/shared"
)

// Repository defines persistence operations for order aggregates.
// Save replaces the line-item set wholesale (delete-then-insert); items are
// never patched incrementally.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Order, error)
	// FindPendingByCustomer returns the customer's open cart, or ErrNotFound
	FindPendingByCustomer(ctx context.Context, customerID string) (*Order, error)
	// FindNonPendingByEmail returns the customer's placed orders, newest first
	FindNonPendingByEmail(ctx context.Context, email string) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, int64, error)
	Save(ctx context.Context, o *Order) error
	// BusyCartIDs returns ids of carts allocated to any non-cancelled order
	// whose scheduled date falls inside [from, to], date granularity.
	BusyCartIDs(ctx context.Context, from, to time.Time) ([]int64, error)
}
