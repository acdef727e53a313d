package rating

import (
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
)

// WindowSize is the number of most recent match ratings averaged into the
// overall rating.
const WindowSize = 10

var (
	MinMatchRating = decimal.New(10, -1)
	MaxMatchRating = decimal.New(100, -1)

	baseRating = decimal.New(50, -1)

	shotOnTargetBonus = decimal.New(2, -1)
	shotOnTargetCap   = decimal.New(15, -1)
	keyPassBonus      = decimal.New(15, -2)
	keyPassCap        = decimal.New(9, -1)
	saveBonus         = decimal.New(3, -1)
	saveCap           = decimal.New(20, -1)
	defensiveBonus    = decimal.New(1, -1)
	defensiveCap      = decimal.New(10, -1)

	assistWeight     = decimal.New(10, -1)
	yellowCardWeight = decimal.New(10, -1)
	redCardWeight    = decimal.New(30, -1)

	defaultGoalWeight = decimal.New(10, -1)
)

type positionWeights struct {
	goal             decimal.Decimal
	savesCount       bool
	defensiveActions bool
}

var weightsByPosition = map[player.Position]positionWeights{
	player.PositionGoalkeeper: {goal: decimal.New(5, -1), savesCount: true, defensiveActions: true},
	player.PositionDefender:   {goal: decimal.New(15, -1), defensiveActions: true},
	player.PositionMidfielder: {goal: decimal.New(15, -1), defensiveActions: true},
	player.PositionForward:    {goal: decimal.New(10, -1)},
}

// MatchRating scores one appearance on a 1.0-10.0 scale, rounded half to
// even to one decimal place.
func MatchRating(stats matchstats.Stats, pos player.Position) decimal.Decimal {
	weights, ok := weightsByPosition[pos]
	if !ok {
		weights = positionWeights{goal: defaultGoalWeight}
	}

	score := baseRating.Sub(minutesPenalty(stats.MinutesPlayed))
	score = score.Add(decimal.NewFromInt(int64(stats.Goals)).Mul(weights.goal))
	score = score.Add(decimal.NewFromInt(int64(stats.Assists)).Mul(assistWeight))
	score = score.Add(capped(stats.ShotsOnTarget, shotOnTargetBonus, shotOnTargetCap))
	score = score.Add(capped(stats.KeyPasses, keyPassBonus, keyPassCap))
	if weights.savesCount {
		score = score.Add(capped(stats.Saves, saveBonus, saveCap))
	}
	if weights.defensiveActions {
		score = score.Add(cappedDecimal(count(stats.Tackles).Add(count(stats.Interceptions)), defensiveBonus, defensiveCap))
	}
	score = score.Sub(decimal.NewFromInt(int64(stats.YellowCards)).Mul(yellowCardWeight))
	score = score.Sub(decimal.NewFromInt(int64(stats.RedCards)).Mul(redCardWeight))

	return clamp(score, MinMatchRating, MaxMatchRating).RoundBank(1)
}

// OverallRating averages ratings and rounds half to even to two decimal
// places. No ratings yields zero.
func OverallRating(ratings []decimal.Decimal) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	return decimal.Avg(ratings[0], ratings[1:]...).RoundBank(2)
}

func minutesPenalty(minutes int) decimal.Decimal {
	switch {
	case minutes < 20:
		return decimal.New(150, -2)
	case minutes < 45:
		return decimal.New(75, -2)
	case minutes < 60:
		return decimal.New(25, -2)
	default:
		return decimal.Zero
	}
}

func count(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func capped(n int, per, limit decimal.Decimal) decimal.Decimal {
	return cappedDecimal(count(n), per, limit)
}

func cappedDecimal(n, per, limit decimal.Decimal) decimal.Decimal {
	return decimal.Min(n.Mul(per), limit)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
