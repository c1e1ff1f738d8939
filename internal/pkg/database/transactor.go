package database

import "context"

// Transactor runs fn in a transaction. Repositories invoked with the context handed
// to fn take part in it; returning an error rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
