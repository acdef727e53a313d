package player

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository describes player persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, p Player) error
	GetByID(ctx context.Context, playerID string) (Player, bool, error)
	GetByUserID(ctx context.Context, userID string) (Player, bool, error)
	ListIDs(ctx context.Context) ([]string, error)
	UpdateRating(ctx context.Context, playerID string, overall decimal.Decimal, matchesPlayed int, updatedAt time.Time) error
}
