// Package repomanager wires repository constructors and schema migrations
// behind one interface so services stay ignorant of the concrete backend.
package repomanager

import (
	"context"
	"database/sql"

	"binderkeeper/internal/dbx"
	"binderkeeper/internal/server/repositories/cards"
	"binderkeeper/internal/server/repositories/preferences"
	"binderkeeper/internal/server/repositories/refreshtokens"
	"binderkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Cards(db dbx.DBTX) cards.Repository
	Preferences(db dbx.DBTX) preferences.Repository
}
