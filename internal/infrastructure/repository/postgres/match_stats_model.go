package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
)

type matchStatsTableModel struct {
	ID             int64               `db:"id"`
	PlayerPublicID string              `db:"player_public_id"`
	MatchID        int64               `db:"match_id"`
	MinutesPlayed  int                 `db:"minutes_played"`
	Goals          int                 `db:"goals"`
	Assists        int                 `db:"assists"`
	YellowCards    int                 `db:"yellow_cards"`
	RedCards       int                 `db:"red_cards"`
	Shots          int                 `db:"shots"`
	ShotsOnTarget  int                 `db:"shots_on_target"`
	KeyPasses      int                 `db:"key_passes"`
	Saves          int                 `db:"saves"`
	Tackles        int                 `db:"tackles"`
	Interceptions  int                 `db:"interceptions"`
	MatchRating    decimal.NullDecimal `db:"match_rating"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

type matchStatsInsertModel struct {
	PlayerPublicID string              `db:"player_public_id"`
	MatchID        int64               `db:"match_id"`
	MinutesPlayed  int                 `db:"minutes_played"`
	Goals          int                 `db:"goals"`
	Assists        int                 `db:"assists"`
	YellowCards    int                 `db:"yellow_cards"`
	RedCards       int                 `db:"red_cards"`
	Shots          int                 `db:"shots"`
	ShotsOnTarget  int                 `db:"shots_on_target"`
	KeyPasses      int                 `db:"key_passes"`
	Saves          int                 `db:"saves"`
	Tackles        int                 `db:"tackles"`
	Interceptions  int                 `db:"interceptions"`
	MatchRating    decimal.NullDecimal `db:"match_rating"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`
}

type matchStatsTotalsModel struct {
	Goals         int             `db:"goals"`
	Assists       int             `db:"assists"`
	Shots         int             `db:"shots"`
	ShotsOnTarget int             `db:"shots_on_target"`
	KeyPasses     int             `db:"key_passes"`
	Saves         int             `db:"saves"`
	Tackles       int             `db:"tackles"`
	Interceptions int             `db:"interceptions"`
	YellowCards   int             `db:"yellow_cards"`
	RedCards      int             `db:"red_cards"`
	MinutesPlayed int             `db:"minutes_played"`
	MatchesPlayed int             `db:"matches_played"`
	AverageRating decimal.Decimal `db:"average_rating"`
}

func newMatchStatsInsertModel(r matchstats.Record) matchStatsInsertModel {
	return matchStatsInsertModel{
		PlayerPublicID: r.PlayerID,
		MatchID:        r.MatchID,
		MinutesPlayed:  r.Stats.MinutesPlayed,
		Goals:          r.Stats.Goals,
		Assists:        r.Stats.Assists,
		YellowCards:    r.Stats.YellowCards,
		RedCards:       r.Stats.RedCards,
		Shots:          r.Stats.Shots,
		ShotsOnTarget:  r.Stats.ShotsOnTarget,
		KeyPasses:      r.Stats.KeyPasses,
		Saves:          r.Stats.Saves,
		Tackles:        r.Stats.Tackles,
		Interceptions:  r.Stats.Interceptions,
		MatchRating:    r.MatchRating,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (m matchStatsTableModel) toDomain() matchstats.Record {
	return matchstats.Record{
		ID:       m.ID,
		PlayerID: m.PlayerPublicID,
		MatchID:  m.MatchID,
		Stats: matchstats.Stats{
			MinutesPlayed: m.MinutesPlayed,
			Goals:         m.Goals,
			Assists:       m.Assists,
			YellowCards:   m.YellowCards,
			RedCards:      m.RedCards,
			Shots:         m.Shots,
			ShotsOnTarget: m.ShotsOnTarget,
			KeyPasses:     m.KeyPasses,
			Saves:         m.Saves,
			Tackles:       m.Tackles,
			Interceptions: m.Interceptions,
		},
		MatchRating: m.MatchRating,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (m matchStatsTotalsModel) toDomain() matchstats.Totals {
	return matchstats.Totals{
		Goals:         m.Goals,
		Assists:       m.Assists,
		Shots:         m.Shots,
		ShotsOnTarget: m.ShotsOnTarget,
		KeyPasses:     m.KeyPasses,
		Saves:         m.Saves,
		Tackles:       m.Tackles,
		Interceptions: m.Interceptions,
		YellowCards:   m.YellowCards,
		RedCards:      m.RedCards,
		MinutesPlayed: m.MinutesPlayed,
		MatchesPlayed: m.MatchesPlayed,
		AverageRating: m.AverageRating,
	}
}
