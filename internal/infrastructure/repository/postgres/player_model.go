package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/player"
)

type playerTableModel struct {
	ID            int64           `db:"id"`
	PublicID      string          `db:"public_id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Position      string          `db:"position"`
	OverallRating decimal.Decimal `db:"overall_rating"`
	MatchesPlayed int             `db:"matches_played"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type playerInsertModel struct {
	PublicID      string          `db:"public_id"`
	UserID        string          `db:"user_id"`
	Name          string          `db:"name"`
	Position      string          `db:"position"`
	OverallRating decimal.Decimal `db:"overall_rating"`
	MatchesPlayed int             `db:"matches_played"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:            m.PublicID,
		UserID:        m.UserID,
		Name:          m.Name,
		Position:      player.Position(m.Position),
		OverallRating: m.OverallRating,
		MatchesPlayed: m.MatchesPlayed,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
