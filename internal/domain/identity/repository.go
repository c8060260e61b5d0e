package identity

import "context"

// UserRepository defines persistence operations for accounts
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// AddressRepository defines persistence operations for addresses
type AddressRepository interface {
	FindByID(ctx context.Context, id int64) (*Address, error)
	FindByUser(ctx context.Context, userID string) ([]Address, error)
	FindPrimaryByUser(ctx context.Context, userID string) (*Address, error)
	// Save persists the address. When addr.Primary is set, every other address
	// of the same account is unmarked first, in the same transaction.
	Save(ctx context.Context, addr *Address) error
	Delete(ctx context.Context, userID string, id int64) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}
