package ratinghistory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Entry records a transition of a player's overall rating.
type Entry struct {
	ID         int64
	PlayerID   string
	Rating     decimal.Decimal
	RecordedAt time.Time
}

// Repository is append-only: entries are never updated or deleted.
type Repository interface {
	// Append assigns ID on the passed entry.
	Append(ctx context.Context, entry *Entry) error
	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, playerID string, limit int) ([]Entry, error)
}
