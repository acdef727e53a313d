package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
	qb "github.com/riskibarqy/player-rating/internal/platform/querybuilder"
)

type ratingHistoryTableModel struct {
	ID             int64           `db:"id"`
	PlayerPublicID string          `db:"player_public_id"`
	Rating         decimal.Decimal `db:"rating"`
	RecordedAt     time.Time       `db:"recorded_at"`
}

type ratingHistoryInsertModel struct {
	PlayerPublicID string          `db:"player_public_id"`
	Rating         decimal.Decimal `db:"rating"`
	RecordedAt     time.Time       `db:"recorded_at"`
}

// RatingHistoryRepository only inserts and reads; the table rejects updates
// and deletes at the database level.
type RatingHistoryRepository struct {
	db sqlx.ExtContext
}

func NewRatingHistoryRepository(db sqlx.ExtContext) *RatingHistoryRepository {
	return &RatingHistoryRepository{db: db}
}

func (r *RatingHistoryRepository) Append(ctx context.Context, entry *ratinghistory.Entry) error {
	if entry == nil {
		return fmt.Errorf("history entry is required")
	}

	query, args, err := qb.InsertModel("player_rating_history", ratingHistoryInsertModel{
		PlayerPublicID: entry.PlayerID,
		Rating:         entry.Rating,
		RecordedAt:     entry.RecordedAt,
	}, "RETURNING id")
	if err != nil {
		return fmt.Errorf("build insert rating history query: %w", err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, r.db, &id, query, args...); err != nil {
		return fmt.Errorf("insert rating history: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *RatingHistoryRepository) ListRecent(ctx context.Context, playerID string, limit int) ([]ratinghistory.Entry, error) {
	query, args, err := qb.Select("id", "player_public_id", "rating", "recorded_at").
		From("player_rating_history").
		Where(qb.Eq("player_public_id", playerID)).
		OrderBy("recorded_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select rating history query: %w", err)
	}

	var rows []ratingHistoryTableModel
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select rating history: %w", err)
	}

	out := make([]ratinghistory.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, ratinghistory.Entry{
			ID:         row.ID,
			PlayerID:   row.PlayerPublicID,
			Rating:     row.Rating,
			RecordedAt: row.RecordedAt,
		})
	}
	return out, nil
}
