package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/player"
	qb "github.com/riskibarqy/player-rating/internal/platform/querybuilder"
)

const playersUserIDConstraint = "players_user_id_key"

// PlayerRepository runs against either a *sqlx.DB or a *sqlx.Tx.
type PlayerRepository struct {
	db sqlx.ExtContext
}

var playerSelectColumns = []string{
	"id",
	"public_id",
	"user_id",
	"name",
	"position",
	"overall_rating",
	"matches_played",
	"created_at",
	"updated_at",
}

func NewPlayerRepository(db sqlx.ExtContext) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	query, args, err := qb.InsertModel("players", playerInsertModel{
		PublicID:      p.ID,
		UserID:        p.UserID,
		Name:          p.Name,
		Position:      string(p.Position),
		OverallRating: p.OverallRating,
		MatchesPlayed: p.MatchesPlayed,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err, playersUserIDConstraint) {
			return fmt.Errorf("%w: user_id=%s", player.ErrUserAlreadyRegistered, p.UserID)
		}
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.getOne(ctx, "public_id", playerID)
}

func (r *PlayerRepository) GetByUserID(ctx context.Context, userID string) (player.Player, bool, error) {
	return r.getOne(ctx, "user_id", userID)
}

func (r *PlayerRepository) getOne(ctx context.Context, column, value string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq(column, value)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build select player by %s query: %w", column, err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player by %s: %w", column, err)
	}
	return row.toDomain(), true, nil
}

func (r *PlayerRepository) ListIDs(ctx context.Context) ([]string, error) {
	query, args, err := qb.Select("public_id").From("players").OrderBy("id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player ids query: %w", err)
	}

	var ids []string
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select player ids: %w", err)
	}
	return ids, nil
}

func (r *PlayerRepository) UpdateRating(ctx context.Context, playerID string, overall decimal.Decimal, matchesPlayed int, updatedAt time.Time) error {
	query, args, err := qb.Update("players").
		Set("overall_rating", overall).
		Set("matches_played", matchesPlayed).
		Set("updated_at", updatedAt).
		Where(qb.Eq("public_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player rating query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player rating: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update player rating: player %s not found", playerID)
	}
	return nil
}
