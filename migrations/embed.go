// Package migrations holds the goose SQL migrations of the database schema.
package migrations

import (
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

// FS contains every *.sql migration file.
//
//go:embed *.sql
var FS embed.FS

// NewProvider returns a goose provider for the embedded migrations.
func NewProvider(db *sql.DB) (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectPostgres, db, FS)
}
