package httpapi

import (
	"net/http"

	"github.com/riskibarqy/player-rating/internal/usecase"
)

func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "RegisterPlayer")
	defer span.End()

	var req registerPlayerRequest
	if err := h.decodeAndValidate(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	p, err := h.playerService.RegisterPlayer(ctx, usecase.RegisterPlayerInput{
		UserID:   req.UserID,
		Name:     req.Name,
		Position: req.Position,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "register player failed", "user_id", req.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, playerToDTO(p))
}

func (h *Handler) GetPlayerRating(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetPlayerRating")
	defer span.End()

	playerID := r.PathValue("playerID")
	historyLimit, err := parseOptionalIntQuery(r, "history")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.GetRating(ctx, playerID, historyLimit)
	if err != nil {
		h.logger.WarnContext(ctx, "get player rating failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, playerRatingToDTO(item))
}

func (h *Handler) GetPlayerStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetPlayerStatistics")
	defer span.End()

	playerID := r.PathValue("playerID")
	item, err := h.playerService.GetStatistics(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player statistics failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(w, http.StatusOK, playerStatisticsToDTO(item))
}
