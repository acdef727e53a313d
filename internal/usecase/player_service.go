package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
	idgen "github.com/riskibarqy/player-rating/internal/platform/id"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type RegisterPlayerInput struct {
	UserID   string
	Name     string
	Position string
}

type PlayerRating struct {
	Player  player.Player
	History []ratinghistory.Entry
}

type PlayerStatistics struct {
	Player player.Player
	Totals matchstats.Totals
}

// PlayerService serves the read side of ratings and player registration.
type PlayerService struct {
	playerRepo  player.Repository
	statsRepo   matchstats.Repository
	historyRepo ratinghistory.Repository
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewPlayerService(
	playerRepo player.Repository,
	statsRepo matchstats.Repository,
	historyRepo ratinghistory.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PlayerService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerService{
		playerRepo:  playerRepo,
		statsRepo:   statsRepo,
		historyRepo: historyRepo,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *PlayerService) RegisterPlayer(ctx context.Context, input RegisterPlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.RegisterPlayer")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)

	position, err := player.ParsePosition(input.Position)
	if err != nil {
		return player.Player{}, invalidInput("%v", err)
	}

	playerID, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	now := s.now().UTC()
	p := player.Player{
		ID:        playerID,
		UserID:    input.UserID,
		Name:      input.Name,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.Validate(); err != nil {
		return player.Player{}, invalidInput("%v", err)
	}

	if err := s.playerRepo.Create(ctx, p); err != nil {
		if errors.Is(err, player.ErrUserAlreadyRegistered) {
			return player.Player{}, conflict("user=%s already has a player", input.UserID)
		}
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}

	s.logger.InfoContext(ctx, "player registered",
		"player_id", p.ID,
		"user_id", p.UserID,
		"position", string(p.Position),
	)
	return p, nil
}

// GetRating returns the player with up to historyLimit history entries,
// newest first. A non-positive limit means DefaultHistoryLimit.
func (s *PlayerService) GetRating(ctx context.Context, playerID string, historyLimit int) (PlayerRating, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetRating", attribute.String("player.id", playerID))
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerRating{}, invalidInput("player id is required")
	}
	historyLimit = normalizeHistoryLimit(historyLimit)

	var (
		p       player.Player
		exists  bool
		history []ratinghistory.Entry
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		p, exists, err = s.playerRepo.GetByID(groupCtx, playerID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		history, err = s.historyRepo.ListRecent(groupCtx, playerID, historyLimit)
		if err != nil {
			return fmt.Errorf("list rating history: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return PlayerRating{}, err
	}
	if !exists {
		return PlayerRating{}, notFound("player=%s", playerID)
	}

	return PlayerRating{Player: p, History: history}, nil
}

// GetStatistics sums every record of the player. The average match rating
// is rounded half to even to two decimals.
func (s *PlayerService) GetStatistics(ctx context.Context, playerID string) (PlayerStatistics, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetStatistics")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return PlayerStatistics{}, invalidInput("player id is required")
	}

	p, err := mustGetPlayer(ctx, s.playerRepo, playerID)
	if err != nil {
		return PlayerStatistics{}, err
	}

	totals, err := s.statsRepo.TotalsByPlayer(ctx, playerID)
	if err != nil {
		return PlayerStatistics{}, fmt.Errorf("sum match stats: %w", err)
	}
	totals.AverageRating = totals.AverageRating.RoundBank(2)

	return PlayerStatistics{Player: p, Totals: totals}, nil
}

func normalizeHistoryLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}
