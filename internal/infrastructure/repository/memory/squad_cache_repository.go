package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
)

type SquadCacheRepository struct {
	mu    sync.RWMutex
	items map[string]squadcache.Entry
}

func NewSquadCacheRepository() *SquadCacheRepository {
	return &SquadCacheRepository{items: make(map[string]squadcache.Entry)}
}

func (r *SquadCacheRepository) Get(_ context.Context, teamName string) (squadcache.Entry, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.items[teamName]
	if !ok {
		return squadcache.Entry{}, false, nil
	}
	return cloneSquadEntry(entry), true, nil
}

func (r *SquadCacheRepository) Upsert(_ context.Context, entry squadcache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[entry.TeamName] = cloneSquadEntry(entry)
	return nil
}

func (r *SquadCacheRepository) Delete(_ context.Context, teamName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, teamName)
	return nil
}

func cloneSquadEntry(in squadcache.Entry) squadcache.Entry {
	out := in
	out.Roster = append([]squadcache.PlayerSummary(nil), in.Roster...)
	return out
}
