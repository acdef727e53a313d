package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
	"github.com/riskibarqy/player-rating/internal/platform/keylock"
)

// Store holds the rating data shared by the memory repositories and unit of
// work. All maps are guarded by mu; per-player exclusivity is provided by
// locks.
type Store struct {
	mu sync.RWMutex

	players      map[string]player.Player
	playerByUser map[string]string
	playerOrder  []string

	records         map[int64]matchstats.Record
	recordsByPlayer map[string][]int64
	nextRecordID    int64

	history       map[string][]ratinghistory.Entry
	nextHistoryID int64

	locks *keylock.Locker
}

func NewStore() *Store {
	return &Store{
		players:         make(map[string]player.Player),
		playerByUser:    make(map[string]string),
		records:         make(map[int64]matchstats.Record),
		recordsByPlayer: make(map[string][]int64),
		history:         make(map[string][]ratinghistory.Entry),
		locks:           keylock.New(),
	}
}

func (s *Store) allocRecordID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRecordID++
	return s.nextRecordID
}

func (s *Store) allocHistoryID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHistoryID++
	return s.nextHistoryID
}

// insertPlayerLocked requires s.mu held for writing.
func (s *Store) insertPlayerLocked(p player.Player) error {
	if _, exists := s.players[p.ID]; exists {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	if _, exists := s.playerByUser[p.UserID]; exists {
		return fmt.Errorf("%w: user_id=%s", player.ErrUserAlreadyRegistered, p.UserID)
	}
	s.players[p.ID] = p
	s.playerByUser[p.UserID] = p.ID
	s.playerOrder = append(s.playerOrder, p.ID)
	return nil
}

// playerRecords returns copies of every record owned by playerID.
func (s *Store) playerRecords(playerID string) []matchstats.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.recordsByPlayer[playerID]
	out := make([]matchstats.Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.records[id])
	}
	return out
}

func (s *Store) playerHistory(playerID string) []ratinghistory.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]ratinghistory.Entry(nil), s.history[playerID]...)
}

func sortRecentFirst(records []matchstats.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID > records[j].ID
	})
}

func recentRated(records []matchstats.Record, limit int) []decimal.Decimal {
	sortRecentFirst(records)

	out := make([]decimal.Decimal, 0, limit)
	for _, r := range records {
		if limit > 0 && len(out) == limit {
			break
		}
		if !r.MatchRating.Valid {
			continue
		}
		out = append(out, r.MatchRating.Decimal)
	}
	return out
}

func sumTotals(records []matchstats.Record) matchstats.Totals {
	var (
		totals matchstats.Totals
		rated  []decimal.Decimal
	)
	for _, r := range records {
		totals.Add(r.Stats)
		if r.MatchRating.Valid {
			rated = append(rated, r.MatchRating.Decimal)
		}
	}
	if len(rated) > 0 {
		totals.AverageRating = decimal.Avg(rated[0], rated[1:]...)
	}
	return totals
}

// recentHistory returns up to limit entries newest first.
func recentHistory(entries []ratinghistory.Entry, limit int) []ratinghistory.Entry {
	out := make([]ratinghistory.Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entries[i])
	}
	return out
}
