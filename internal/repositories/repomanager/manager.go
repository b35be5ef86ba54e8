// Package repomanager wires repository constructors to a database handle and
// exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkravets/vidstream/internal/dbx"
	"github.com/mkravets/vidstream/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against *sql.DB or an open transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
