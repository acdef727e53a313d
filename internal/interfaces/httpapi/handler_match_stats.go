package httpapi

import (
	"net/http"

	"github.com/riskibarqy/player-rating/internal/usecase"
)

func (h *Handler) RecordMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RecordMatchStats")
	defer span.End()

	playerID := r.PathValue("playerID")
	var req recordMatchStatsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ratingService.RecordMatchStats(ctx, usecase.RecordMatchStatsInput{
		PlayerID: playerID,
		MatchID:  req.MatchID,
		Stats:    req.toStats(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record match stats failed", "player_id", playerID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, matchStatsResultToDTO(result))
}

func (h *Handler) CorrectMatchStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "CorrectMatchStats")
	defer span.End()

	playerID := r.PathValue("playerID")
	recordID, err := parseInt64Path(r, "recordID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req correctMatchStatsRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ratingService.CorrectMatchStats(ctx, usecase.CorrectMatchStatsInput{
		PlayerID: playerID,
		RecordID: recordID,
		Stats:    req.toStats(),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "correct match stats failed", "player_id", playerID, "record_id", recordID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, matchStatsResultToDTO(result))
}

func (h *Handler) RefreshPlayerRating(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RefreshPlayerRating")
	defer span.End()

	playerID := r.PathValue("playerID")
	update, err := h.ratingService.RefreshRating(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh player rating failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, ratingUpdateDTO{
		PlayerID:      playerID,
		OverallRating: ratingNumber(update.OverallRating),
		MatchesPlayed: update.MatchesPlayed,
		RatingChanged: update.Changed,
	})
}

func (h *Handler) RecalculateRatings(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RecalculateRatings")
	defer span.End()

	workers, err := parseOptionalIntQuery(r, "workers")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.ratingService.RecalculateAll(ctx, usecase.RecalculateAllInput{MaxWorkers: workers})
	if err != nil {
		h.logger.ErrorContext(ctx, "recalculate ratings failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, recalculateResultToDTO(result))
}
