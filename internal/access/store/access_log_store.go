package store

import (
	"context"

	"github.com/fulutas/cardaccess/internal/access/types"
)

// ListFilter narrows a history query. The zero value returns everything.
type ListFilter struct {
	CardID string // restrict to one card; empty = all cards
	Limit  int    // max rows; 0 = unbounded
}

// AccessLogStore persists scans as an append-only log.
//
// AppendToggled reads the card's most recent action and inserts the toggled
// row in a single transaction, so concurrent scans of the same card cannot
// both observe the same last action. Referential integrity (a user must exist
// for the card_id) is the caller's responsibility to pre-check; the sqlite
// implementation also enforces it via foreign keys.
type AccessLogStore interface {
	LastAction(ctx context.Context, cardID string) (types.Action, bool, error)
	AppendToggled(ctx context.Context, cardID string) (types.LogEntry, error)
	List(ctx context.Context, f ListFilter) ([]types.LogEntry, error)
}
