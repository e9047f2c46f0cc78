package repository

import "context"

// TxManager runs a function inside a single database transaction. The
// transaction handle travels in the context, so every repository call
// made with the derived context joins the same transaction. If fn
// returns an error the whole transaction rolls back and no partial
// writes survive.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
