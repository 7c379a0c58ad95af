package repository

import (
	"context"
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/dfelipe-rojas/guias-tracker/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS shipments (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	batch_id   TEXT NOT NULL,
	batch_date TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shipments_batch ON shipments (batch_id);
`

// Open opens (or creates) the sqlite database at path and bootstraps the
// schema. Use ":memory:" for an ephemeral store (batch CLI, tests).
func Open(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening shipment store", "path", path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("failed to open shipment store", "error", err)
		return nil, common.WrapError(err, "open store")
	}
	// modernc.org/sqlite serializes writes itself; one connection avoids
	// SQLITE_BUSY on concurrent ingests.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("shipment store ping failed", "error", err)
		return nil, common.WrapError(err, "ping store")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("failed to bootstrap schema", "error", err)
		return nil, common.WrapError(err, "bootstrap schema")
	}
	return db, nil
}
