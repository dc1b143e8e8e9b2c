package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fulutas/cardaccess/internal/access/store"
	"github.com/fulutas/cardaccess/internal/access/types"
	"github.com/fulutas/cardaccess/internal/telemetry"
)

var (
	ErrInvalidCardID  = errors.New("card_id is required")
	ErrInvalidName    = errors.New("full_name is required")
	ErrCardRegistered = errors.New("card_id already registered")
	ErrUnknownCard    = errors.New("card_id not recognized")
)

// AccessService owns registration, the entry/exit toggle, and history over
// the two-table store. Every front-end (listener, console, HTTP) drives this
// one service and only translates its sentinel errors into output.
type AccessService struct {
	users store.UserStore
	logs  store.AccessLogStore
}

func NewAccessService(users store.UserStore, logs store.AccessLogStore) *AccessService {
	return &AccessService{users: users, logs: logs}
}

// Register validates and creates a new user bound to the card. Inputs are
// trimmed first; validation failures never touch the store, and a duplicate
// card leaves the existing user untouched.
func (s *AccessService) Register(ctx context.Context, cardID, fullName string) (types.User, error) {
	cardID = strings.TrimSpace(cardID)
	fullName = strings.TrimSpace(fullName)

	if cardID == "" {
		telemetry.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return types.User{}, ErrInvalidCardID
	}
	if fullName == "" {
		telemetry.RegistrationsTotal.WithLabelValues("invalid").Inc()
		return types.User{}, ErrInvalidName
	}

	u := types.User{
		CardID:    cardID,
		FullName:  fullName,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicateCard) {
			telemetry.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return types.User{}, ErrCardRegistered
		}
		return types.User{}, err
	}

	telemetry.RegistrationsTotal.WithLabelValues("ok").Inc()
	return u, nil
}

// GetUser looks up the user bound to the card. ErrUnknownCard if absent.
func (s *AccessService) GetUser(ctx context.Context, cardID string) (types.User, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return types.User{}, ErrInvalidCardID
	}

	u, ok, err := s.users.Get(ctx, cardID)
	if err != nil {
		return types.User{}, err
	}
	if !ok {
		return types.User{}, ErrUnknownCard
	}
	return u, nil
}

// DetermineAction reports the action the next scan of this card would log.
// Pure read; nothing is persisted.
func (s *AccessService) DetermineAction(ctx context.Context, cardID string) (types.Action, error) {
	last, found, err := s.logs.LastAction(ctx, strings.TrimSpace(cardID))
	if err != nil {
		return "", err
	}
	return types.NextAction(last, found), nil
}

// Scan processes one badge scan: looks up the user, appends the toggled log
// row, and returns the row with the user's full name for display. An unknown
// card is reported as ErrUnknownCard and writes nothing.
func (s *AccessService) Scan(ctx context.Context, cardID string) (types.LogEntry, error) {
	cardID = strings.TrimSpace(cardID)
	if cardID == "" {
		return types.LogEntry{}, ErrInvalidCardID
	}

	u, ok, err := s.users.Get(ctx, cardID)
	if err != nil {
		return types.LogEntry{}, err
	}
	if !ok {
		telemetry.ScanRejectionsTotal.Inc()
		return types.LogEntry{}, ErrUnknownCard
	}

	entry, err := s.logs.AppendToggled(ctx, cardID)
	if err != nil {
		return types.LogEntry{}, err
	}

	entry.FullName = u.FullName
	telemetry.ScansTotal.WithLabelValues(string(entry.Action)).Inc()
	return entry, nil
}

// History returns log rows joined with full names, newest first. cardID
// restricts to one card when non-empty; limit 0 returns everything.
func (s *AccessService) History(ctx context.Context, cardID string, limit int) ([]types.LogEntry, error) {
	return s.logs.List(ctx, store.ListFilter{
		CardID: strings.TrimSpace(cardID),
		Limit:  limit,
	})
}
