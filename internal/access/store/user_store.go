package store

import (
	"context"
	"errors"

	"github.com/fulutas/cardaccess/internal/access/types"
)

// ErrDuplicateCard is returned by Create when a user already exists for the
// card_id. No mutation occurs in that case.
var ErrDuplicateCard = errors.New("card_id already registered")

type UserStore interface {
	Create(ctx context.Context, u types.User) error
	Get(ctx context.Context, cardID string) (types.User, bool, error)
}
