package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fulutas/cardaccess/internal/access/store"
	"github.com/fulutas/cardaccess/internal/access/types"
)

// AccessLogStore is an in-memory append-only scan log. It joins full names in
// from the UserStore it was built with, mirroring what the sqlite store does
// with a JOIN.
type AccessLogStore struct {
	mu      sync.Mutex
	users   *UserStore
	entries []types.LogEntry
	nextID  int64
}

func NewAccessLogStore(users *UserStore) *AccessLogStore {
	return &AccessLogStore{users: users, nextID: 1}
}

func (s *AccessLogStore) LastAction(_ context.Context, cardID string) (types.Action, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, found := s.lastLocked(cardID)
	return last, found, nil
}

func (s *AccessLogStore) AppendToggled(_ context.Context, cardID string) (types.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, found := s.lastLocked(cardID)
	entry := types.LogEntry{
		ID:       s.nextID,
		CardID:   cardID,
		Action:   types.NextAction(last, found),
		ScanTime: time.Now().UTC(),
	}
	s.nextID++
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *AccessLogStore) List(ctx context.Context, f store.ListFilter) ([]types.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.LogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		if f.CardID != "" && e.CardID != f.CardID {
			continue
		}
		if u, ok, _ := s.users.Get(ctx, e.CardID); ok {
			e.FullName = u.FullName
		}
		out = append(out, e)
	}

	// Newest first; IDs break ties between same-instant scans.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScanTime.Equal(out[j].ScanTime) {
			return out[i].ScanTime.After(out[j].ScanTime)
		}
		return out[i].ID > out[j].ID
	})

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// Entries returns a copy of all recorded entries in insert order. Test-only helper.
func (s *AccessLogStore) Entries() []types.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// entries are appended in scan order, so the last match is the most recent.
func (s *AccessLogStore) lastLocked(cardID string) (types.Action, bool) {
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].CardID == cardID {
			return s.entries[i].Action, true
		}
	}
	return "", false
}
