package player

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrUserAlreadyRegistered = errors.New("user already has a player profile")

// Position represents football position categories used by the rating rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

var AllPositions = map[Position]struct{}{
	PositionGoalkeeper: {},
	PositionDefender:   {},
	PositionMidfielder: {},
	PositionForward:    {},
}

func ParsePosition(raw string) (Position, error) {
	pos := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := AllPositions[pos]; !ok {
		return "", fmt.Errorf("invalid player position: %q", raw)
	}
	return pos, nil
}

// Player is a rated footballer bound one-to-one to a user identity.
// OverallRating and MatchesPlayed are derived from the player's match
// statistics and are only written by the rating aggregator.
type Player struct {
	ID            string
	UserID        string
	Name          string
	Position      Position
	OverallRating decimal.Decimal
	MatchesPlayed int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("player user id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.MatchesPlayed < 0 {
		return fmt.Errorf("matches played must be >= 0")
	}

	return nil
}
