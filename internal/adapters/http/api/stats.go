package api

import (
	"net/http"

	"github.com/okian/classplay/internal/domain/types"
)

// StatsProvider reports the service counters shown on the dashboard.
type StatsProvider interface {
	GetStats() types.Stats
}

// StatsHandler serves /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler over provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats writes the current counters. They change on every click, so
// responses are never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
