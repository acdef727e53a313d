package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	qb "github.com/riskibarqy/player-rating/internal/platform/querybuilder"
)

type squadCacheTableModel struct {
	TeamName  string    `db:"team_name"`
	APITeamID int64     `db:"api_team_id"`
	SquadJSON []byte    `db:"squad_json"`
	FetchedAt time.Time `db:"fetched_at"`
}

type SquadCacheRepository struct {
	db *sqlx.DB
}

func NewSquadCacheRepository(db *sqlx.DB) *SquadCacheRepository {
	return &SquadCacheRepository{db: db}
}

func (r *SquadCacheRepository) Get(ctx context.Context, teamName string) (squadcache.Entry, bool, error) {
	query, args, err := qb.Select("team_name", "api_team_id", "squad_json", "fetched_at").
		From("squad_cache").
		Where(qb.Eq("team_name", teamName)).
		ToSQL()
	if err != nil {
		return squadcache.Entry{}, false, fmt.Errorf("build select squad cache query: %w", err)
	}

	var row squadCacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return squadcache.Entry{}, false, nil
		}
		return squadcache.Entry{}, false, fmt.Errorf("select squad cache: %w", err)
	}

	var roster []squadcache.PlayerSummary
	if len(row.SquadJSON) > 0 {
		if err := sonic.Unmarshal(row.SquadJSON, &roster); err != nil {
			return squadcache.Entry{}, false, fmt.Errorf("decode squad cache roster: %w", err)
		}
	}

	return squadcache.Entry{
		TeamName:       row.TeamName,
		ExternalTeamID: row.APITeamID,
		Roster:         roster,
		FetchedAt:      row.FetchedAt,
	}, true, nil
}

func (r *SquadCacheRepository) Upsert(ctx context.Context, entry squadcache.Entry) error {
	payload, err := sonic.Marshal(entry.Roster)
	if err != nil {
		return fmt.Errorf("encode squad cache roster: %w", err)
	}

	const upsertQuery = `
INSERT INTO squad_cache (team_name, api_team_id, squad_json, fetched_at)
VALUES (:team_name, :api_team_id, :squad_json, :fetched_at)
ON CONFLICT (team_name)
DO UPDATE SET
    api_team_id = EXCLUDED.api_team_id,
    squad_json = EXCLUDED.squad_json,
    fetched_at = EXCLUDED.fetched_at`

	query, args, err := sqlx.Named(upsertQuery, map[string]any{
		"team_name":   entry.TeamName,
		"api_team_id": entry.ExternalTeamID,
		"squad_json":  string(payload),
		"fetched_at":  entry.FetchedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert squad cache query: %w", err)
	}
	query = r.db.Rebind(query)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert squad cache: %w", err)
	}
	return nil
}

func (r *SquadCacheRepository) Delete(ctx context.Context, teamName string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM squad_cache WHERE team_name = $1`, teamName); err != nil {
		return fmt.Errorf("delete squad cache: %w", err)
	}
	return nil
}
