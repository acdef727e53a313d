package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	qb "github.com/riskibarqy/player-rating/internal/platform/querybuilder"
)

type MatchStatsRepository struct {
	db sqlx.ExtContext
}

var matchStatsSelectColumns = []string{
	"id",
	"player_public_id",
	"match_id",
	"minutes_played",
	"goals",
	"assists",
	"yellow_cards",
	"red_cards",
	"shots",
	"shots_on_target",
	"key_passes",
	"saves",
	"tackles",
	"interceptions",
	"match_rating",
	"created_at",
	"updated_at",
}

func NewMatchStatsRepository(db sqlx.ExtContext) *MatchStatsRepository {
	return &MatchStatsRepository{db: db}
}

func (r *MatchStatsRepository) Create(ctx context.Context, record *matchstats.Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}

	query, args, err := qb.InsertModel("player_match_stats", newMatchStatsInsertModel(*record), "RETURNING id")
	if err != nil {
		return fmt.Errorf("build insert match stats query: %w", err)
	}

	var id int64
	if err := sqlx.GetContext(ctx, r.db, &id, query, args...); err != nil {
		return fmt.Errorf("insert match stats: %w", err)
	}
	record.ID = id
	return nil
}

func (r *MatchStatsRepository) GetByID(ctx context.Context, recordID int64) (matchstats.Record, bool, error) {
	query, args, err := qb.Select(matchStatsSelectColumns...).From("player_match_stats").
		Where(qb.Eq("id", recordID)).
		ToSQL()
	if err != nil {
		return matchstats.Record{}, false, fmt.Errorf("build select match stats query: %w", err)
	}

	var row matchStatsTableModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if isNotFound(err) {
			return matchstats.Record{}, false, nil
		}
		return matchstats.Record{}, false, fmt.Errorf("select match stats: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchStatsRepository) Update(ctx context.Context, record matchstats.Record) error {
	s := record.Stats
	query, args, err := qb.Update("player_match_stats").
		Set("minutes_played", s.MinutesPlayed).
		Set("goals", s.Goals).
		Set("assists", s.Assists).
		Set("yellow_cards", s.YellowCards).
		Set("red_cards", s.RedCards).
		Set("shots", s.Shots).
		Set("shots_on_target", s.ShotsOnTarget).
		Set("key_passes", s.KeyPasses).
		Set("saves", s.Saves).
		Set("tackles", s.Tackles).
		Set("interceptions", s.Interceptions).
		Set("match_rating", record.MatchRating).
		Set("updated_at", record.UpdatedAt).
		Where(qb.Eq("id", record.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update match stats query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update match stats: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update match stats: record %d not found", record.ID)
	}
	return nil
}

func (r *MatchStatsRepository) CountByPlayer(ctx context.Context, playerID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("player_match_stats").
		Where(qb.Eq("player_public_id", playerID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count match stats query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count match stats: %w", err)
	}
	return count, nil
}

func (r *MatchStatsRepository) ListRecentRated(ctx context.Context, playerID string, limit int) ([]decimal.Decimal, error) {
	query, args, err := qb.Select("match_rating").From("player_match_stats").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Expr("match_rating IS NOT NULL"),
		).
		OrderBy("created_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent ratings query: %w", err)
	}

	var ratings []decimal.Decimal
	if err := sqlx.SelectContext(ctx, r.db, &ratings, query, args...); err != nil {
		return nil, fmt.Errorf("select recent ratings: %w", err)
	}
	return ratings, nil
}

func (r *MatchStatsRepository) TotalsByPlayer(ctx context.Context, playerID string) (matchstats.Totals, error) {
	query, args, err := qb.Select(
		"COALESCE(SUM(goals), 0) AS goals",
		"COALESCE(SUM(assists), 0) AS assists",
		"COALESCE(SUM(shots), 0) AS shots",
		"COALESCE(SUM(shots_on_target), 0) AS shots_on_target",
		"COALESCE(SUM(key_passes), 0) AS key_passes",
		"COALESCE(SUM(saves), 0) AS saves",
		"COALESCE(SUM(tackles), 0) AS tackles",
		"COALESCE(SUM(interceptions), 0) AS interceptions",
		"COALESCE(SUM(yellow_cards), 0) AS yellow_cards",
		"COALESCE(SUM(red_cards), 0) AS red_cards",
		"COALESCE(SUM(minutes_played), 0) AS minutes_played",
		"COUNT(*) AS matches_played",
		"COALESCE(AVG(match_rating), 0) AS average_rating",
	).From("player_match_stats").
		Where(qb.Eq("player_public_id", playerID)).
		ToSQL()
	if err != nil {
		return matchstats.Totals{}, fmt.Errorf("build select match stats totals query: %w", err)
	}

	var row matchStatsTotalsModel
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		return matchstats.Totals{}, fmt.Errorf("select match stats totals: %w", err)
	}
	return row.toDomain(), nil
}
