package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/player-rating/internal/domain/player"
)

// SeedPlayers returns demo players for local runs on the memory driver.
func SeedPlayers(now time.Time) []player.Player {
	mk := func(id, userID, name string, pos player.Position) player.Player {
		return player.Player{
			ID:        id,
			UserID:    userID,
			Name:      name,
			Position:  pos,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	return []player.Player{
		mk("ply_demo_gk", "demo-user-1", "Георгій Бущан", player.PositionGoalkeeper),
		mk("ply_demo_def", "demo-user-2", "Віталій Миколенко", player.PositionDefender),
		mk("ply_demo_mid", "demo-user-3", "Георгій Судаков", player.PositionMidfielder),
		mk("ply_demo_fwd", "demo-user-4", "Владислав Ванат", player.PositionForward),
	}
}

func Seed(ctx context.Context, store *Store, players []player.Player) error {
	repo := NewPlayerRepository(store)
	for _, p := range players {
		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}
	return nil
}
