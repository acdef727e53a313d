package httpapi

import (
	"net/http"

	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

// RouterConfig carries the process settings the HTTP surface depends on.
type RouterConfig struct {
	Logger         *logging.Logger
	AllowedOrigins []string
	// AdminToken guards the correction, refresh and internal routes. Empty
	// disables them with 503.
	AdminToken string
}

type route struct {
	pattern string
	handle  http.HandlerFunc
	admin   bool
}

func (h *Handler) routes() []route {
	return []route{
		{pattern: "GET /healthz", handle: h.Healthz},

		{pattern: "POST /v1/players", handle: h.RegisterPlayer},
		{pattern: "GET /v1/players/{playerID}/rating", handle: h.GetPlayerRating},
		{pattern: "GET /v1/players/{playerID}/statistics", handle: h.GetPlayerStatistics},
		{pattern: "POST /v1/players/{playerID}/match-stats", handle: h.RecordMatchStats},
		{pattern: "PUT /v1/players/{playerID}/match-stats/{recordID}", handle: h.CorrectMatchStats, admin: true},
		{pattern: "POST /v1/players/{playerID}/rating/refresh", handle: h.RefreshPlayerRating, admin: true},

		{pattern: "GET /v1/squads", handle: h.ListSquads},
		{pattern: "GET /v1/squads/{teamName}", handle: h.GetSquad},

		{pattern: "POST /v1/internal/ratings/recalculate", handle: h.RecalculateRatings, admin: true},
		{pattern: "POST /v1/internal/squads/sync", handle: h.SyncSquads, admin: true},
	}
}

// NewRouter mounts every route of h behind tracing, access logging, CORS and
// panic recovery, outermost first.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	for _, rt := range h.routes() {
		var handler http.Handler = rt.handle
		if rt.admin {
			handler = RequireAdminToken(cfg.AdminToken, handler)
		}
		mux.Handle(rt.pattern, handler)
	}

	var root http.Handler = mux
	root = recoverPanic(logger, root)
	root = CORS(cfg.AllowedOrigins, root)
	root = RequestLogging(logger, root)
	return RequestTracing(root)
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec, "path", r.URL.Path)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
