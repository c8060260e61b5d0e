package shared

import "context"

// UnitOfWork runs a function inside a single storage transaction. Every
// repository call made with the callback's context joins that transaction;
// an error rolls the whole unit back, so no partial state is ever visible.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
