// Package tx carries a SQL transaction through the context so the cascade
// delete can run several store calls against one transaction without changing
// any store signature. Stores check for an ambient transaction first and fall
// back to their pooled connection.
package tx

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx returns a context carrying the transaction.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// From reports the ambient transaction, if one was opened upstream.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}
