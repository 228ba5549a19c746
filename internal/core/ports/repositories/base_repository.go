package repositories

import "context"

// TransactionManager runs a function inside one all-or-nothing unit of work.
// The store handed to fn must be used for every read and write of the unit;
// when fn returns an error nothing it wrote is kept.
type TransactionManager interface {
	WithTx(ctx context.Context, fn func(store LedgerStore) error) error
}
