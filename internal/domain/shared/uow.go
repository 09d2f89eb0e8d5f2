package shared

import "context"

// TransactionScope runs a function inside a single storage transaction.
// Repositories resolve the active transaction from the context the callback
// receives, so every read and write inside fn commits or rolls back as one
// unit. Implementations must roll back when fn returns an error.
type TransactionScope interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTransactionScope executes the callback without transactional
// guarantees. Useful for tests over in-memory repositories.
type NopTransactionScope struct{}

// WithinTransaction invokes fn with the given context unchanged
func (NopTransactionScope) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
