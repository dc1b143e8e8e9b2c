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

type UserStore struct {
	db     *sql.DB
	writer *dbpkg.Worker
}

func NewUserStore(db *sql.DB, writer *dbpkg.Worker) *UserStore {
	return &UserStore{db: db, writer: writer}
}

// Create inserts a new user. The duplicate check runs inside the writer
// transaction, so two racing registrations of the same card cannot both
// succeed.
func (s *UserStore) Create(ctx context.Context, u types.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	createdMs := u.CreatedAt.UTC().UnixMilli()

	return s.writer.Do(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var one int
		err := tx.QueryRowContext(ctx, `
SELECT 1 FROM users WHERE card_id = ?;
`, u.CardID).Scan(&one)
		if err == nil {
			return store.ErrDuplicateCard
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("Create check card: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
INSERT INTO users(card_id, full_name, created_at_ms)
VALUES (?, ?, ?);
`, u.CardID, u.FullName, createdMs); err != nil {
			return fmt.Errorf("Create insert: %w", err)
		}

		return nil
	})
}

func (s *UserStore) Get(ctx context.Context, cardID string) (types.User, bool, error) {
	var (
		u         types.User
		createdMs int64
	)

	err := s.db.QueryRowContext(ctx, `
SELECT card_id, full_name, created_at_ms
FROM users
WHERE card_id = ?;
`, cardID).Scan(&u.CardID, &u.FullName, &createdMs)

	if err == sql.ErrNoRows {
		return types.User{}, false, nil
	}
	if err != nil {
		return types.User{}, false, fmt.Errorf("Get query: %w", err)
	}

	u.CreatedAt = time.UnixMilli(createdMs).UTC()
	return u, true, nil
}
