// Package repomanager vends repository implementations bound to a database
// handle, and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkov/accountsvc/internal/dbx"
	"github.com/avolkov/accountsvc/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
