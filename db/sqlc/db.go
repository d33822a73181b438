// db/sqlc/db.go
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the minimal subset of *pgxpool.Pool / pgx.Tx that Queries needs to
// run a statement. Accepting the interface instead of a concrete pool lets
// the same generated methods run against a pool or against a transaction,
// the same split the teacher's db/sqlc package uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is the generated-style query root every *.sql.go file adds
// methods to, the same shape as the teacher's db/sqlc/task.sql.go.
type Queries struct {
	db DBTX
}

// New builds a Queries bound to db (a pool or a transaction).
func New(db DBTX) *Queries {
	return &Queries{db: db}
}
