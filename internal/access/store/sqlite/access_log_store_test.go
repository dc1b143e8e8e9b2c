package sqlite_test

import (
	"context"
	"testing"

	"github.com/fulutas/cardaccess/internal/access/store"
	"github.com/fulutas/cardaccess/internal/access/store/sqlite"
	"github.com/fulutas/cardaccess/internal/access/types"
	"github.com/fulutas/cardaccess/internal/db"
)

func newTestStores(t *testing.T) (*sqlite.UserStore, *sqlite.AccessLogStore) {
	t.Helper()

	conn := openTestDB(t)
	writer := newTestWriter(t, conn)
	return sqlite.NewUserStore(conn, writer), sqlite.NewAccessLogStore(conn, writer)
}

func mustRegister(t *testing.T, users *sqlite.UserStore, cardID, name string) {
	t.Helper()

	if err := users.Create(context.Background(), types.User{CardID: cardID, FullName: name}); err != nil {
		t.Fatalf("register %s: %v", cardID, err)
	}
}

func TestAccessLogStore_LastActionEmpty(t *testing.T) {
	_, logs := newTestStores(t)

	_, found, err := logs.LastAction(context.Background(), "C1")
	if err != nil {
		t.Fatalf("LastAction: %v", err)
	}
	if found {
		t.Error("expected found=false for card with no logs")
	}
}

func TestAccessLogStore_AppendToggledAlternates(t *testing.T) {
	users, logs := newTestStores(t)
	ctx := context.Background()
	mustRegister(t, users, "C1", "Alice")

	want := []types.Action{types.ActionEntry, types.ActionExit, types.ActionEntry, types.ActionExit}
	var lastID int64
	for i, expected := range want {
		entry, err := logs.AppendToggled(ctx, "C1")
		if err != nil {
			t.Fatalf("append %d: %v", i+1, err)
		}
		if entry.Action != expected {
			t.Errorf("append %d: expected %s, got %s", i+1, expected, entry.Action)
		}
		if entry.ID <= lastID {
			t.Errorf("append %d: expected monotonically increasing id, got %d after %d", i+1, entry.ID, lastID)
		}
		lastID = entry.ID

		action, found, err := logs.LastAction(ctx, "C1")
		if err != nil {
			t.Fatalf("LastAction after append %d: %v", i+1, err)
		}
		if !found || action != expected {
			t.Errorf("append %d: LastAction = (%s, %v), want (%s, true)", i+1, action, found, expected)
		}
	}
}

func TestAccessLogStore_TogglePerCard(t *testing.T) {
	users, logs := newTestStores(t)
	ctx := context.Background()
	mustRegister(t, users, "C1", "Alice")
	mustRegister(t, users, "C2", "Bob")

	// C1 enters; C2's first scan must still be an ENTRY.
	if _, err := logs.AppendToggled(ctx, "C1"); err != nil {
		t.Fatalf("append C1: %v", err)
	}
	entry, err := logs.AppendToggled(ctx, "C2")
	if err != nil {
		t.Fatalf("append C2: %v", err)
	}
	if entry.Action != types.ActionEntry {
		t.Errorf("expected ENTRY for C2's first scan, got %s", entry.Action)
	}
}

func TestAccessLogStore_ForeignKeyEnforced(t *testing.T) {
	_, logs := newTestStores(t)

	if _, err := logs.AppendToggled(context.Background(), "ghost"); err == nil {
		t.Fatal("expected foreign key violation for unregistered card")
	}
}

func TestAccessLogStore_ListJoinFilterLimit(t *testing.T) {
	users, logs := newTestStores(t)
	ctx := context.Background()
	mustRegister(t, users, "C1", "Alice")
	mustRegister(t, users, "C2", "Bob")

	for i := 0; i < 3; i++ {
		if _, err := logs.AppendToggled(ctx, "C1"); err != nil {
			t.Fatalf("append C1: %v", err)
		}
	}
	if _, err := logs.AppendToggled(ctx, "C2"); err != nil {
		t.Fatalf("append C2: %v", err)
	}

	all, err := logs.List(ctx, store.ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(all))
	}
	// Newest first: same-instant rows fall back to id ordering.
	for i := 1; i < len(all); i++ {
		if all[i-1].ScanTime.Before(all[i].ScanTime) {
			t.Errorf("rows not newest-first at index %d", i)
		}
		if all[i-1].ScanTime.Equal(all[i].ScanTime) && all[i-1].ID < all[i].ID {
			t.Errorf("tied rows not id-descending at index %d", i)
		}
	}
	if all[0].CardID != "C2" || all[0].FullName != "Bob" {
		t.Errorf("expected newest row to be C2/Bob, got %s/%s", all[0].CardID, all[0].FullName)
	}

	onlyC1, err := logs.List(ctx, store.ListFilter{CardID: "C1"})
	if err != nil {
		t.Fatalf("List C1: %v", err)
	}
	if len(onlyC1) != 3 {
		t.Fatalf("expected 3 rows for C1, got %d", len(onlyC1))
	}
	for _, e := range onlyC1 {
		if e.CardID != "C1" || e.FullName != "Alice" {
			t.Errorf("unexpected row %s/%s in C1 filter", e.CardID, e.FullName)
		}
	}

	limited, err := logs.List(ctx, store.ListFilter{Limit: 2})
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 rows with limit=2, got %d", len(limited))
	}
}

func TestMigrateIdempotent(t *testing.T) {
	conn := openTestDB(t)

	// openTestDB already migrated; a second run must be a no-op.
	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
