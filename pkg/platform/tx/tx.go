// Package tx carries a *sql.Tx through context so archive writes can
// join a caller's transaction without the store API growing a tx
// parameter on every method.
package tx

import (
	"context"
	"database/sql"
)

type key struct{}

// WithTx returns a context whose store operations run inside tx.
// A nil tx leaves the context unchanged.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, key{}, tx)
}

// From reports the transaction attached to ctx, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(key{}).(*sql.Tx)
	return t, ok
}
