package handler

import (
	"log/slog"
	"net/http"

	"github.com/soarr/flightlog/internal/auth"
	"github.com/soarr/flightlog/internal/service"
)

// StatsHandler serves the aggregate travel statistics view.
type StatsHandler struct {
	stats  *service.StatsService
	logger *slog.Logger
}

func NewStatsHandler(stats *service.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		stats:  stats,
		logger: logger,
	}
}

// HandleStats computes statistics over the caller's flights. A user with no
// flights gets the zero-value shape, not an error.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	stats, err := h.stats.Compute(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
