package postgresql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/staffhub-id/hr-backend-go/internal/pkg/database"
)

type txContextKey struct{}

// WithTx returns a context carrying the transaction; repositories picked
// up through GetQuerier will run their statements inside it.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// GetQuerier returns either the ambient transaction or the pool.
// Used in repositories to support both transactional and non-transactional operations.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txContextKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
