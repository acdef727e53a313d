package matchstats

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create assigns ID on the passed record.
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, recordID int64) (Record, bool, error)
	// Update rewrites stats, rating and UpdatedAt. CreatedAt is immutable.
	Update(ctx context.Context, record Record) error
	CountByPlayer(ctx context.Context, playerID string) (int, error)
	// ListRecentRated returns ratings of records with a non-null rating,
	// newest first by created time then record id.
	ListRecentRated(ctx context.Context, playerID string, limit int) ([]decimal.Decimal, error)
	// TotalsByPlayer sums every record. AverageRating holds the unrounded
	// mean of non-null ratings, zero when there are none.
	TotalsByPlayer(ctx context.Context, playerID string) (Totals, error)
}
