package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/player-rating/internal/domain/rating"
	qb "github.com/riskibarqy/player-rating/internal/platform/querybuilder"
)

// UnitOfWork opens one transaction per call and takes a row lock on the
// player before running fn.
type UnitOfWork struct {
	db          *sqlx.DB
	lockTimeout time.Duration
}

func NewUnitOfWork(db *sqlx.DB, lockTimeout time.Duration) *UnitOfWork {
	return &UnitOfWork{db: db, lockTimeout: lockTimeout}
}

func (u *UnitOfWork) WithinPlayer(ctx context.Context, playerID string, fn func(ctx context.Context, repos rating.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := u.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return classifyTxError(fmt.Errorf("begin player tx: %w", err))
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if u.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return classifyTxError(fmt.Errorf("set lock timeout: %w", err))
		}
	}

	lockQuery, lockArgs, err := qb.Select("public_id").From("players").
		Where(qb.Eq("public_id", playerID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock player query: %w", err)
	}
	var locked string
	if err := tx.GetContext(ctx, &locked, lockQuery, lockArgs...); err != nil && !isNotFound(err) {
		return classifyTxError(fmt.Errorf("lock player: %w", err))
	}

	repos := rating.Repositories{
		Players: NewPlayerRepository(tx),
		Stats:   NewMatchStatsRepository(tx),
		History: NewRatingHistoryRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return classifyTxError(err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return classifyTxError(fmt.Errorf("commit player tx: %w", err))
	}
	return nil
}
