package db

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5"
)

//go:embed schema.sql
var schemaSQL string

// ensureSchema applies the idempotent DDL in schema.sql over a dedicated
// connection.
func ensureSchema(ctx context.Context, dbURL string) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, schemaSQL)
	return err
}
