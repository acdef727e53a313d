package redis

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
)

func TestSquadCacheRepository_KeyPrefix(t *testing.T) {
	t.Parallel()

	repo := NewSquadCacheRepository(nil, "")
	if got := repo.key("Динамо"); got != "player-rating:squad:Динамо" {
		t.Fatalf("unexpected key %q", got)
	}

	custom := NewSquadCacheRepository(nil, "test:")
	if got := custom.key("Рух"); got != "test:Рух" {
		t.Fatalf("unexpected key %q", got)
	}
}

func TestEncodeSquadCacheValue(t *testing.T) {
	t.Parallel()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	number := 10
	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := encodeSquadCacheValue(buf, squadcache.Entry{
		TeamName:       "Динамо",
		ExternalTeamID: 572,
		Roster:         []squadcache.PlayerSummary{{Name: "Ярмоленко", Number: &number, Position: "Attacker"}},
		FetchedAt:      fetchedAt,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded squadCacheValue
	if err := sonic.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ExternalTeamID != 572 || len(decoded.Roster) != 1 || *decoded.Roster[0].Number != 10 {
		t.Fatalf("unexpected decoded value: %+v", decoded)
	}
	if !decoded.FetchedAt.Equal(fetchedAt) {
		t.Fatalf("unexpected fetched_at %s", decoded.FetchedAt)
	}
}

func TestEncodeSquadCacheValue_EmptyRosterIsArray(t *testing.T) {
	t.Parallel()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeSquadCacheValue(buf, squadcache.Entry{TeamName: "Верес"}); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]any
	if err := sonic.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := raw["squad"].([]any); !ok {
		t.Fatalf("expected squad to encode as an array, got %T", raw["squad"])
	}
}
