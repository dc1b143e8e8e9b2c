package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SeedDev pre-registers a starter card so a fresh dev database can log scans
// immediately. Safe to run on every startup.
func SeedDev(ctx context.Context, db *sql.DB) error {
	now := time.Now().UTC().UnixMilli()

	if _, err := db.ExecContext(ctx, `
INSERT OR IGNORE INTO users(card_id, full_name, created_at_ms)
VALUES ('00x-abc-bcd', 'Furkan Ulutaş', ?);
`, now); err != nil {
		return fmt.Errorf("seed user 00x-abc-bcd: %w", err)
	}

	return nil
}
