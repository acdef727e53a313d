package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/rating"
	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
)

// UnitOfWork serializes work per player with a keyed lock and stages writes
// until fn returns nil.
type UnitOfWork struct {
	store       *Store
	lockTimeout time.Duration
}

func NewUnitOfWork(store *Store, lockTimeout time.Duration) *UnitOfWork {
	return &UnitOfWork{store: store, lockTimeout: lockTimeout}
}

func (u *UnitOfWork) WithinPlayer(ctx context.Context, playerID string, fn func(ctx context.Context, repos rating.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	lockCtx, cancel := ctx, context.CancelFunc(func() {})
	if u.lockTimeout > 0 {
		lockCtx, cancel = context.WithTimeout(ctx, u.lockTimeout)
	}
	unlock, err := u.store.locks.Lock(lockCtx, playerID)
	cancel()
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: lock wait for player %s exceeded %s", rating.ErrConcurrencyConflict, playerID, u.lockTimeout)
		}
		return err
	}
	defer unlock()

	tx := newStagedTx(u.store)
	if err := fn(ctx, tx.repositories()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

type stagedTx struct {
	store *Store

	players        map[string]player.Player
	createdPlayers []string

	records    map[int64]matchstats.Record
	newRecords []int64

	history []ratinghistory.Entry
}

func newStagedTx(store *Store) *stagedTx {
	return &stagedTx{
		store:   store,
		players: make(map[string]player.Player),
		records: make(map[int64]matchstats.Record),
	}
}

func (tx *stagedTx) repositories() rating.Repositories {
	return rating.Repositories{
		Players: txPlayers{tx},
		Stats:   txStats{tx},
		History: txHistory{tx},
	}
}

func (tx *stagedTx) commit() error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range tx.createdPlayers {
		p := tx.players[id]
		if _, exists := s.players[p.ID]; exists {
			return fmt.Errorf("player %s already exists", p.ID)
		}
		if _, exists := s.playerByUser[p.UserID]; exists {
			return fmt.Errorf("%w: user_id=%s", player.ErrUserAlreadyRegistered, p.UserID)
		}
	}

	created := make(map[string]struct{}, len(tx.createdPlayers))
	for _, id := range tx.createdPlayers {
		created[id] = struct{}{}
		if err := s.insertPlayerLocked(tx.players[id]); err != nil {
			return err
		}
	}
	for id, p := range tx.players {
		if _, ok := created[id]; ok {
			continue
		}
		s.players[id] = p
	}

	fresh := make(map[int64]struct{}, len(tx.newRecords))
	for _, id := range tx.newRecords {
		fresh[id] = struct{}{}
		record := tx.records[id]
		s.records[id] = record
		s.recordsByPlayer[record.PlayerID] = append(s.recordsByPlayer[record.PlayerID], id)
	}
	for id, record := range tx.records {
		if _, ok := fresh[id]; ok {
			continue
		}
		s.records[id] = record
	}

	for _, entry := range tx.history {
		s.history[entry.PlayerID] = append(s.history[entry.PlayerID], entry)
	}
	return nil
}

func (tx *stagedTx) player(playerID string) (player.Player, bool) {
	if p, ok := tx.players[playerID]; ok {
		return p, true
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	p, ok := tx.store.players[playerID]
	return p, ok
}

func (tx *stagedTx) record(recordID int64) (matchstats.Record, bool) {
	if r, ok := tx.records[recordID]; ok {
		return r, true
	}
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	r, ok := tx.store.records[recordID]
	return r, ok
}

// playerRecords merges committed records with staged edits and inserts.
func (tx *stagedTx) playerRecords(playerID string) []matchstats.Record {
	base := tx.store.playerRecords(playerID)
	for i, r := range base {
		if staged, ok := tx.records[r.ID]; ok {
			base[i] = staged
		}
	}
	for _, id := range tx.newRecords {
		if r := tx.records[id]; r.PlayerID == playerID {
			base = append(base, r)
		}
	}
	return base
}

type txPlayers struct{ tx *stagedTx }

func (r txPlayers) Create(_ context.Context, p player.Player) error {
	if _, exists := r.tx.player(p.ID); exists {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	if _, exists, _ := r.GetByUserID(context.Background(), p.UserID); exists {
		return fmt.Errorf("%w: user_id=%s", player.ErrUserAlreadyRegistered, p.UserID)
	}
	r.tx.players[p.ID] = p
	r.tx.createdPlayers = append(r.tx.createdPlayers, p.ID)
	return nil
}

func (r txPlayers) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	p, ok := r.tx.player(playerID)
	return p, ok, nil
}

func (r txPlayers) GetByUserID(_ context.Context, userID string) (player.Player, bool, error) {
	for _, id := range r.tx.createdPlayers {
		if p := r.tx.players[id]; p.UserID == userID {
			return p, true, nil
		}
	}

	r.tx.store.mu.RLock()
	id, ok := r.tx.store.playerByUser[userID]
	r.tx.store.mu.RUnlock()
	if !ok {
		return player.Player{}, false, nil
	}
	p, _ := r.tx.player(id)
	return p, true, nil
}

func (r txPlayers) ListIDs(_ context.Context) ([]string, error) {
	r.tx.store.mu.RLock()
	ids := append([]string(nil), r.tx.store.playerOrder...)
	r.tx.store.mu.RUnlock()
	return append(ids, r.tx.createdPlayers...), nil
}

func (r txPlayers) UpdateRating(_ context.Context, playerID string, overall decimal.Decimal, matchesPlayed int, updatedAt time.Time) error {
	p, ok := r.tx.player(playerID)
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	p.OverallRating = overall
	p.MatchesPlayed = matchesPlayed
	p.UpdatedAt = updatedAt
	r.tx.players[playerID] = p
	return nil
}

type txStats struct{ tx *stagedTx }

func (r txStats) Create(_ context.Context, record *matchstats.Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	if _, ok := r.tx.player(record.PlayerID); !ok {
		return fmt.Errorf("player %s not found", record.PlayerID)
	}
	record.ID = r.tx.store.allocRecordID()
	r.tx.records[record.ID] = *record
	r.tx.newRecords = append(r.tx.newRecords, record.ID)
	return nil
}

func (r txStats) GetByID(_ context.Context, recordID int64) (matchstats.Record, bool, error) {
	record, ok := r.tx.record(recordID)
	return record, ok, nil
}

func (r txStats) Update(_ context.Context, record matchstats.Record) error {
	current, ok := r.tx.record(record.ID)
	if !ok {
		return fmt.Errorf("match stats record %d not found", record.ID)
	}
	current.Stats = record.Stats
	current.MatchRating = record.MatchRating
	current.UpdatedAt = record.UpdatedAt
	r.tx.records[record.ID] = current
	return nil
}

func (r txStats) CountByPlayer(_ context.Context, playerID string) (int, error) {
	return len(r.tx.playerRecords(playerID)), nil
}

func (r txStats) ListRecentRated(_ context.Context, playerID string, limit int) ([]decimal.Decimal, error) {
	return recentRated(r.tx.playerRecords(playerID), limit), nil
}

func (r txStats) TotalsByPlayer(_ context.Context, playerID string) (matchstats.Totals, error) {
	return sumTotals(r.tx.playerRecords(playerID)), nil
}

type txHistory struct{ tx *stagedTx }

func (r txHistory) Append(_ context.Context, entry *ratinghistory.Entry) error {
	if entry == nil {
		return fmt.Errorf("history entry is required")
	}
	entry.ID = r.tx.store.allocHistoryID()
	r.tx.history = append(r.tx.history, *entry)
	return nil
}

func (r txHistory) ListRecent(_ context.Context, playerID string, limit int) ([]ratinghistory.Entry, error) {
	entries := r.tx.store.playerHistory(playerID)
	for _, e := range r.tx.history {
		if e.PlayerID == playerID {
			entries = append(entries, e)
		}
	}
	return recentHistory(entries, limit), nil
}
