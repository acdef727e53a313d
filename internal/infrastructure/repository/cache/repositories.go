package cache

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/rating"
	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	basecache "github.com/riskibarqy/player-rating/internal/platform/cache"
)

type cachedPlayerByID struct {
	value  player.Player
	exists bool
}

// PlayerCache is shared by PlayerRepository and UnitOfWork so that writes
// through either evict the same entries.
type PlayerCache struct {
	store *basecache.Store[cachedPlayerByID]
}

func NewPlayerCache(ttl time.Duration) *PlayerCache {
	return &PlayerCache{store: basecache.NewStore[cachedPlayerByID](ttl)}
}

// PlayerRepository caches player reads by public id.
type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store[cachedPlayerByID]
}

func NewPlayerRepository(next player.Repository, cache *PlayerCache) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache.store}
}

func (r *PlayerRepository) Create(ctx context.Context, p player.Player) error {
	if err := r.next.Create(ctx, p); err != nil {
		return err
	}
	r.cache.Delete(ctx, playerKey(p.ID))
	return nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, playerKey(playerID), func(ctx context.Context) (cachedPlayerByID, error) {
		item, exists, err := r.next.GetByID(ctx, playerID)
		if err != nil {
			return cachedPlayerByID{}, err
		}
		return cachedPlayerByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetByUserID(ctx context.Context, userID string) (player.Player, bool, error) {
	return r.next.GetByUserID(ctx, userID)
}

func (r *PlayerRepository) ListIDs(ctx context.Context) ([]string, error) {
	return r.next.ListIDs(ctx)
}

func (r *PlayerRepository) UpdateRating(ctx context.Context, playerID string, overall decimal.Decimal, matchesPlayed int, updatedAt time.Time) error {
	defer r.cache.Delete(ctx, playerKey(playerID))
	return r.next.UpdateRating(ctx, playerID, overall, matchesPlayed, updatedAt)
}

// UnitOfWork evicts the cached player once a unit for that player ends.
type UnitOfWork struct {
	next  rating.UnitOfWork
	cache *basecache.Store[cachedPlayerByID]
}

func NewUnitOfWork(next rating.UnitOfWork, cache *PlayerCache) *UnitOfWork {
	return &UnitOfWork{next: next, cache: cache.store}
}

func (u *UnitOfWork) WithinPlayer(ctx context.Context, playerID string, fn func(ctx context.Context, repos rating.Repositories) error) error {
	defer u.cache.Delete(ctx, playerKey(playerID))
	return u.next.WithinPlayer(ctx, playerID, fn)
}

func playerKey(playerID string) string {
	return "player:id:" + playerID
}

type cachedSquadEntry struct {
	value  squadcache.Entry
	exists bool
}

// SquadCacheRepository is an in-process read-through layer over a shared
// squad cache backend such as Postgres or Redis.
type SquadCacheRepository struct {
	next  squadcache.Repository
	cache *basecache.Store[cachedSquadEntry]
}

func NewSquadCacheRepository(next squadcache.Repository, ttl time.Duration) *SquadCacheRepository {
	return &SquadCacheRepository{next: next, cache: basecache.NewStore[cachedSquadEntry](ttl)}
}

func (r *SquadCacheRepository) Get(ctx context.Context, teamName string) (squadcache.Entry, bool, error) {
	cached, err := r.cache.GetOrLoad(ctx, squadKey(teamName), func(ctx context.Context) (cachedSquadEntry, error) {
		item, exists, err := r.next.Get(ctx, teamName)
		if err != nil {
			return cachedSquadEntry{}, err
		}
		return cachedSquadEntry{value: item, exists: exists}, nil
	})
	if err != nil {
		return squadcache.Entry{}, false, err
	}
	return cloneSquadEntry(cached.value), cached.exists, nil
}

func (r *SquadCacheRepository) Upsert(ctx context.Context, entry squadcache.Entry) error {
	defer r.cache.Delete(ctx, squadKey(entry.TeamName))
	return r.next.Upsert(ctx, entry)
}

func (r *SquadCacheRepository) Delete(ctx context.Context, teamName string) error {
	defer r.cache.Delete(ctx, squadKey(teamName))
	return r.next.Delete(ctx, teamName)
}

func cloneSquadEntry(in squadcache.Entry) squadcache.Entry {
	out := in
	out.Roster = append([]squadcache.PlayerSummary(nil), in.Roster...)
	return out
}

func squadKey(teamName string) string {
	return "squad:team:" + teamName
}
