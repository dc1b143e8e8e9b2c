package types

import "time"

// Action is the direction of a logged access event.
type Action string

const (
	ActionEntry Action = "ENTRY"
	ActionExit  Action = "EXIT"
)

// NextAction applies the toggle rule: a card with no prior log, or whose most
// recent log is an EXIT, produces an ENTRY; a card whose most recent log is an
// ENTRY produces an EXIT. found reports whether a prior log row exists.
func NextAction(last Action, found bool) Action {
	if found && last == ActionEntry {
		return ActionExit
	}
	return ActionEntry
}

// User is a registered card holder. Users are created once and never mutated.
type User struct {
	CardID    string    `json:"card_id"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

// LogEntry is one access event. Rows are append-only; FullName is joined in
// from the owning user for display and is empty where the query doesn't need it.
type LogEntry struct {
	ID       int64     `json:"id"`
	CardID   string    `json:"card_id"`
	Action   Action    `json:"action"`
	ScanTime time.Time `json:"scan_time"`
	FullName string    `json:"full_name,omitempty"`
}

type RegisterRequest struct {
	CardID   string `json:"card_id"`
	FullName string `json:"full_name"`
}

type ScanRequest struct {
	CardID string `json:"card_id"`
}
