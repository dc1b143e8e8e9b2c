package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fulutas/cardaccess/internal/access/store"
	"github.com/fulutas/cardaccess/internal/access/types"
	dbpkg "github.com/fulutas/cardaccess/internal/db"
)

type AccessLogStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewAccessLogStore(db *sql.DB, writer *dbpkg.Worker) *AccessLogStore {
	return &AccessLogStore{db: db, writer: writer}
}

func (s *AccessLogStore) LastAction(ctx context.Context, cardID string) (types.Action, bool, error) {
	var action string

	err := s.db.QueryRowContext(ctx, `
SELECT action FROM access_logs
WHERE card_id = ?
ORDER BY scan_time_ms DESC, id DESC
LIMIT 1;
`, cardID).Scan(&action)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("LastAction query: %w", err)
	}
	return types.Action(action), true, nil
}

// AppendToggled reads the card's most recent action and inserts the toggled
// row in one writer transaction. The single-writer worker serializes it with
// every other write, so concurrent scans of the same card strictly alternate.
func (s *AccessLogStore) AppendToggled(ctx context.Context, cardID string) (types.LogEntry, error) {
	var entry types.LogEntry

	err := s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var (
			last  string
			found = true
		)
		err := tx.QueryRowContext(ctx, `
SELECT action FROM access_logs
WHERE card_id = ?
ORDER BY scan_time_ms DESC, id DESC
LIMIT 1;
`, cardID).Scan(&last)
		if err == sql.ErrNoRows {
			found = false
		} else if err != nil {
			return fmt.Errorf("AppendToggled read last: %w", err)
		}

		now := time.Now().UTC()
		next := types.NextAction(types.Action(last), found)

		res, err := tx.ExecContext(ctx, `
INSERT INTO access_logs(card_id, action, scan_time_ms)
VALUES (?, ?, ?);
`, cardID, string(next), now.UnixMilli())
		if err != nil {
			return fmt.Errorf("AppendToggled insert: %w", err)
		}

		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("AppendToggled last insert id: %w", err)
		}

		entry = types.LogEntry{
			ID:       id,
			CardID:   cardID,
			Action:   next,
			ScanTime: time.UnixMilli(now.UnixMilli()).UTC(),
		}
		return nil
	})
	if err != nil {
		return types.LogEntry{}, err
	}
	return entry, nil
}

func (s *AccessLogStore) List(ctx context.Context, f store.ListFilter) ([]types.LogEntry, error) {
	q := `
SELECT l.id, l.card_id, l.action, l.scan_time_ms, u.full_name
FROM access_logs l
JOIN users u ON u.card_id = l.card_id`
	args := make([]any, 0, 2)

	if f.CardID != "" {
		q += `
WHERE l.card_id = ?`
		args = append(args, f.CardID)
	}

	q += `
ORDER BY l.scan_time_ms DESC, l.id DESC`

	if f.Limit > 0 {
		q += `
LIMIT ?`
		args = append(args, f.Limit)
	}
	q += ";"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("List query: %w", err)
	}
	defer rows.Close()

	var out []types.LogEntry
	for rows.Next() {
		var (
			e      types.LogEntry
			action string
			scanMs int64
		)
		if err := rows.Scan(&e.ID, &e.CardID, &action, &scanMs, &e.FullName); err != nil {
			return nil, fmt.Errorf("List scan: %w", err)
		}
		e.Action = types.Action(action)
		e.ScanTime = time.UnixMilli(scanMs).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List rows: %w", err)
	}
	return out, nil
}
