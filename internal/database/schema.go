package database

import (
	"context"
	_ "embed"

	"github.com/sanketp27/travel-concierge/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// initSchema creates the cache and run_log tables if they do not exist.
func (db *DB) initSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return types.WrapError(types.DB_SCHEMA_FAILED, "failed to apply schema", err)
	}
	return nil
}
