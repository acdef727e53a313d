package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	goredis "github.com/redis/go-redis/v9"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
)

const defaultKeyPrefix = "player-rating:squad:"

type squadCacheValue struct {
	TeamName       string                     `json:"team_name"`
	ExternalTeamID int64                      `json:"api_team_id"`
	Roster         []squadcache.PlayerSummary `json:"squad"`
	FetchedAt      time.Time                  `json:"fetched_at"`
}

// SquadCacheRepository stores one JSON document per team. Keys never expire;
// freshness is decided by the reader from FetchedAt.
type SquadCacheRepository struct {
	client goredis.UniversalClient
	prefix string
}

func NewSquadCacheRepository(client goredis.UniversalClient, prefix string) *SquadCacheRepository {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &SquadCacheRepository{client: client, prefix: prefix}
}

func (r *SquadCacheRepository) key(teamName string) string {
	return r.prefix + teamName
}

func (r *SquadCacheRepository) Get(ctx context.Context, teamName string) (squadcache.Entry, bool, error) {
	raw, err := r.client.Get(ctx, r.key(teamName)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return squadcache.Entry{}, false, nil
		}
		return squadcache.Entry{}, false, fmt.Errorf("redis get squad cache: %w", err)
	}

	var value squadCacheValue
	if err := sonic.Unmarshal(raw, &value); err != nil {
		return squadcache.Entry{}, false, fmt.Errorf("decode squad cache value: %w", err)
	}

	return squadcache.Entry{
		TeamName:       teamName,
		ExternalTeamID: value.ExternalTeamID,
		Roster:         value.Roster,
		FetchedAt:      value.FetchedAt,
	}, true, nil
}

func (r *SquadCacheRepository) Upsert(ctx context.Context, entry squadcache.Entry) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeSquadCacheValue(buf, entry); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key(entry.TeamName), buf.Bytes(), 0).Err(); err != nil {
		return fmt.Errorf("redis set squad cache: %w", err)
	}
	return nil
}

func (r *SquadCacheRepository) Delete(ctx context.Context, teamName string) error {
	if err := r.client.Del(ctx, r.key(teamName)).Err(); err != nil {
		return fmt.Errorf("redis delete squad cache: %w", err)
	}
	return nil
}

func encodeSquadCacheValue(buf *bytebufferpool.ByteBuffer, entry squadcache.Entry) error {
	roster := entry.Roster
	if roster == nil {
		roster = []squadcache.PlayerSummary{}
	}
	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(squadCacheValue{
		TeamName:       entry.TeamName,
		ExternalTeamID: entry.ExternalTeamID,
		Roster:         roster,
		FetchedAt:      entry.FetchedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("encode squad cache value: %w", err)
	}
	return nil
}
