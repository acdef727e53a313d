package httpapi

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	"github.com/riskibarqy/player-rating/internal/usecase"
)

type registerPlayerRequest struct {
	UserID   string `json:"user_id" validate:"required,max=128"`
	Name     string `json:"name" validate:"required,max=200"`
	Position string `json:"position" validate:"required"`
}

type matchStatsFields struct {
	Goals         int `json:"goals" validate:"gte=0,lte=1000"`
	Assists       int `json:"assists" validate:"gte=0,lte=1000"`
	Shots         int `json:"shots" validate:"gte=0,lte=1000"`
	ShotsOnTarget int `json:"shots_on_target" validate:"gte=0,lte=1000"`
	KeyPasses     int `json:"key_passes" validate:"gte=0,lte=1000"`
	Saves         int `json:"saves" validate:"gte=0,lte=1000"`
	Tackles       int `json:"tackles" validate:"gte=0,lte=1000"`
	Interceptions int `json:"interceptions" validate:"gte=0,lte=1000"`
	YellowCards   int `json:"yellow_cards" validate:"gte=0,lte=1000"`
	RedCards      int `json:"red_cards" validate:"gte=0,lte=1000"`
	MinutesPlayed int `json:"minutes_played" validate:"gte=0,lte=150"`
}

func (f matchStatsFields) toStats() matchstats.Stats {
	return matchstats.Stats{
		Goals:         f.Goals,
		Assists:       f.Assists,
		Shots:         f.Shots,
		ShotsOnTarget: f.ShotsOnTarget,
		KeyPasses:     f.KeyPasses,
		Saves:         f.Saves,
		Tackles:       f.Tackles,
		Interceptions: f.Interceptions,
		YellowCards:   f.YellowCards,
		RedCards:      f.RedCards,
		MinutesPlayed: f.MinutesPlayed,
	}
}

type recordMatchStatsRequest struct {
	MatchID int64 `json:"match_id" validate:"required,gt=0"`
	matchStatsFields
}

type correctMatchStatsRequest struct {
	matchStatsFields
}

type syncRequest struct {
	Workers int `json:"workers" validate:"gte=0,lte=64"`
}

type playerDTO struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Name          string      `json:"name"`
	Position      string      `json:"position"`
	OverallRating json.Number `json:"overall_rating"`
	MatchesPlayed int         `json:"matches_played"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type historyEntryDTO struct {
	Rating     json.Number `json:"rating"`
	RecordedAt time.Time   `json:"recorded_at"`
}

type playerRatingDTO struct {
	PlayerID      string            `json:"player_id"`
	OverallRating json.Number       `json:"overall_rating"`
	MatchesPlayed int               `json:"matches_played"`
	History       []historyEntryDTO `json:"history"`
}

type matchStatsRecordDTO struct {
	ID            int64        `json:"id"`
	PlayerID      string       `json:"player_id"`
	MatchID       int64        `json:"match_id"`
	Goals         int          `json:"goals"`
	Assists       int          `json:"assists"`
	Shots         int          `json:"shots"`
	ShotsOnTarget int          `json:"shots_on_target"`
	KeyPasses     int          `json:"key_passes"`
	Saves         int          `json:"saves"`
	Tackles       int          `json:"tackles"`
	Interceptions int          `json:"interceptions"`
	YellowCards   int          `json:"yellow_cards"`
	RedCards      int          `json:"red_cards"`
	MinutesPlayed int          `json:"minutes_played"`
	MatchRating   *json.Number `json:"match_rating"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type matchStatsResultDTO struct {
	Record        matchStatsRecordDTO `json:"record"`
	MatchRating   *json.Number        `json:"match_rating"`
	OverallRating json.Number         `json:"overall_rating"`
	MatchesPlayed int                 `json:"matches_played"`
	RatingChanged bool                `json:"rating_changed"`
}

type ratingUpdateDTO struct {
	PlayerID      string      `json:"player_id"`
	OverallRating json.Number `json:"overall_rating"`
	MatchesPlayed int         `json:"matches_played"`
	RatingChanged bool        `json:"rating_changed"`
}

type playerStatisticsDTO struct {
	PlayerID      string      `json:"player_id"`
	Name          string      `json:"name"`
	Position      string      `json:"position"`
	MatchesPlayed int         `json:"matches_played"`
	Goals         int         `json:"goals"`
	Assists       int         `json:"assists"`
	Shots         int         `json:"shots"`
	ShotsOnTarget int         `json:"shots_on_target"`
	KeyPasses     int         `json:"key_passes"`
	Saves         int         `json:"saves"`
	Tackles       int         `json:"tackles"`
	Interceptions int         `json:"interceptions"`
	YellowCards   int         `json:"yellow_cards"`
	RedCards      int         `json:"red_cards"`
	MinutesPlayed int         `json:"minutes_played"`
	AverageRating json.Number `json:"average_rating"`
	OverallRating json.Number `json:"overall_rating"`
}

type recalculatedPlayerDTO struct {
	PlayerID      string      `json:"player_id"`
	Status        string      `json:"status"`
	OverallRating json.Number `json:"overall_rating"`
	MatchesPlayed int         `json:"matches_played"`
	Message       string      `json:"message,omitempty"`
	DurationMs    int64       `json:"duration_ms"`
}

type recalculateResultDTO struct {
	Total     int                     `json:"total"`
	Changed   int                     `json:"changed"`
	Unchanged int                     `json:"unchanged"`
	Failed    int                     `json:"failed"`
	Players   []recalculatedPlayerDTO `json:"players"`
}

type squadPlayerDTO struct {
	Name     string `json:"name"`
	Age      *int   `json:"age"`
	Number   *int   `json:"number"`
	Position string `json:"position"`
	Photo    string `json:"photo"`
}

type squadDTO struct {
	TeamName  string           `json:"team_name"`
	APITeamID int64            `json:"api_team_id,omitempty"`
	Squad     []squadPlayerDTO `json:"squad"`
	Source    string           `json:"source"`
	FetchedAt *time.Time       `json:"fetched_at,omitempty"`
	Error     string           `json:"error,omitempty"`
}

type squadTeamDTO struct {
	Name      string `json:"name"`
	APITeamID int64  `json:"api_team_id"`
}

type syncedTeamDTO struct {
	TeamName string `json:"team_name"`
	Players  int    `json:"players"`
	Source   string `json:"source"`
	Error    string `json:"error,omitempty"`
}

type syncResultDTO struct {
	Teams        int             `json:"teams"`
	Players      int             `json:"players"`
	ByProvenance map[string]int  `json:"by_source"`
	Items        []syncedTeamDTO `json:"items"`
}

func ratingNumber(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func matchRatingNumber(d decimal.NullDecimal) *json.Number {
	if !d.Valid {
		return nil
	}
	n := json.Number(d.Decimal.StringFixed(1))
	return &n
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		Name:          p.Name,
		Position:      string(p.Position),
		OverallRating: ratingNumber(p.OverallRating),
		MatchesPlayed: p.MatchesPlayed,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func playerRatingToDTO(item usecase.PlayerRating) playerRatingDTO {
	history := make([]historyEntryDTO, 0, len(item.History))
	for _, entry := range item.History {
		history = append(history, historyEntryToDTO(entry))
	}
	return playerRatingDTO{
		PlayerID:      item.Player.ID,
		OverallRating: ratingNumber(item.Player.OverallRating),
		MatchesPlayed: item.Player.MatchesPlayed,
		History:       history,
	}
}

func historyEntryToDTO(entry ratinghistory.Entry) historyEntryDTO {
	return historyEntryDTO{Rating: ratingNumber(entry.Rating), RecordedAt: entry.RecordedAt}
}

func matchStatsRecordToDTO(record matchstats.Record) matchStatsRecordDTO {
	return matchStatsRecordDTO{
		ID:            record.ID,
		PlayerID:      record.PlayerID,
		MatchID:       record.MatchID,
		Goals:         record.Stats.Goals,
		Assists:       record.Stats.Assists,
		Shots:         record.Stats.Shots,
		ShotsOnTarget: record.Stats.ShotsOnTarget,
		KeyPasses:     record.Stats.KeyPasses,
		Saves:         record.Stats.Saves,
		Tackles:       record.Stats.Tackles,
		Interceptions: record.Stats.Interceptions,
		YellowCards:   record.Stats.YellowCards,
		RedCards:      record.Stats.RedCards,
		MinutesPlayed: record.Stats.MinutesPlayed,
		MatchRating:   matchRatingNumber(record.MatchRating),
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}

func matchStatsResultToDTO(result usecase.MatchStatsResult) matchStatsResultDTO {
	return matchStatsResultDTO{
		Record:        matchStatsRecordToDTO(result.Record),
		MatchRating:   matchRatingNumber(result.Record.MatchRating),
		OverallRating: ratingNumber(result.OverallRating),
		MatchesPlayed: result.MatchesPlayed,
		RatingChanged: result.Changed,
	}
}

func playerStatisticsToDTO(item usecase.PlayerStatistics) playerStatisticsDTO {
	t := item.Totals
	return playerStatisticsDTO{
		PlayerID:      item.Player.ID,
		Name:          item.Player.Name,
		Position:      string(item.Player.Position),
		MatchesPlayed: t.MatchesPlayed,
		Goals:         t.Goals,
		Assists:       t.Assists,
		Shots:         t.Shots,
		ShotsOnTarget: t.ShotsOnTarget,
		KeyPasses:     t.KeyPasses,
		Saves:         t.Saves,
		Tackles:       t.Tackles,
		Interceptions: t.Interceptions,
		YellowCards:   t.YellowCards,
		RedCards:      t.RedCards,
		MinutesPlayed: t.MinutesPlayed,
		AverageRating: ratingNumber(t.AverageRating),
		OverallRating: ratingNumber(item.Player.OverallRating),
	}
}

func recalculateResultToDTO(result usecase.RecalculateAllResult) recalculateResultDTO {
	players := make([]recalculatedPlayerDTO, 0, len(result.Players))
	for _, row := range result.Players {
		players = append(players, recalculatedPlayerDTO{
			PlayerID:      row.PlayerID,
			Status:        row.Status,
			OverallRating: ratingNumber(row.OverallRating),
			MatchesPlayed: row.MatchesPlayed,
			Message:       row.Message,
			DurationMs:    row.DurationMs,
		})
	}
	return recalculateResultDTO{
		Total:     result.Total,
		Changed:   result.Changed,
		Unchanged: result.Unchanged,
		Failed:    result.Failed,
		Players:   players,
	}
}

func squadToDTO(result usecase.SquadResult) squadDTO {
	squad := make([]squadPlayerDTO, 0, len(result.Roster))
	for _, p := range result.Roster {
		squad = append(squad, squadPlayerToDTO(p))
	}
	return squadDTO{
		TeamName:  result.TeamName,
		APITeamID: result.ExternalTeamID,
		Squad:     squad,
		Source:    string(result.Provenance),
		FetchedAt: result.FetchedAt,
		Error:     result.Error,
	}
}

func squadPlayerToDTO(p squadcache.PlayerSummary) squadPlayerDTO {
	return squadPlayerDTO{
		Name:     p.Name,
		Age:      p.Age,
		Number:   p.Number,
		Position: p.Position,
		Photo:    p.PhotoURL,
	}
}

func syncResultToDTO(result usecase.SyncAllResult) syncResultDTO {
	byProvenance := make(map[string]int, len(result.ByProvenance))
	for provenance, count := range result.ByProvenance {
		byProvenance[string(provenance)] = count
	}
	items := make([]syncedTeamDTO, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, syncedTeamDTO{
			TeamName: item.TeamName,
			Players:  item.Players,
			Source:   string(item.Provenance),
			Error:    item.Error,
		})
	}
	return syncResultDTO{
		Teams:        result.Teams,
		Players:      result.Players,
		ByProvenance: byProvenance,
		Items:        items,
	}
}
