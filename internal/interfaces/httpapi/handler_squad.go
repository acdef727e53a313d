package httpapi

import (
	"net/http"

	"github.com/riskibarqy/player-rating/internal/usecase"
)

func (h *Handler) ListSquads(w http.ResponseWriter, _ *http.Request) {
	teams := h.squadService.ListTeams()
	out := make([]squadTeamDTO, 0, len(teams))
	for _, team := range teams {
		out = append(out, squadTeamDTO{Name: team.Name, APITeamID: team.ExternalTeamID})
	}

	writeSuccess(w, http.StatusOK, out)
}

// GetSquad always answers 200; the source field tells how it was resolved.
func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "GetSquad")
	defer span.End()

	result := h.squadService.Get(ctx, r.PathValue("teamName"))
	writeSuccess(w, http.StatusOK, squadToDTO(result))
}

func (h *Handler) SyncSquads(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r.Context(), "SyncSquads")
	defer span.End()

	var req syncRequest
	if r.ContentLength != 0 {
		if err := h.decodeAndValidate(ctx, r, &req); err != nil {
			writeError(ctx, w, err)
			return
		}
	}

	result := h.squadService.SyncAll(ctx, usecase.SyncAllInput{MaxWorkers: req.Workers})
	writeSuccess(w, http.StatusOK, syncResultToDTO(result))
}
