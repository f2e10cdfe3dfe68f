package storage

import (
	"context"
	_ "embed"
)

//go:embed schema.sql
var schema string

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return InternalError(err)
	}
	return nil
}
