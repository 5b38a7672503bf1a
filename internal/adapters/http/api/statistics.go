// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"

	"github.com/mkabbani/evround/internal/domain/stats"
)

// StatisticsHandler serves per-inspector aggregates.
type StatisticsHandler struct {
	deps Dependencies
}

// NewStatisticsHandler creates a new statistics handler.
func NewStatisticsHandler(deps Dependencies) *StatisticsHandler {
	return &StatisticsHandler{deps: deps}
}

type statisticsResponse struct {
	Inspector string        `json:"inspector"`
	Window    stats.Window  `json:"window"`
	Summary   stats.Summary `json:"summary"`
}

// HandleStatistics handles GET /statistics?inspector=X&window=Y requests.
// The window defaults to a month.
func (h *StatisticsHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	inspector := r.URL.Query().Get("inspector")
	if inspector == "" {
		writeError(w, fmt.Errorf("%w: missing inspector", ErrBadRequest))
		return
	}
	window := stats.Window(r.URL.Query().Get("window"))
	if window == "" {
		window = stats.WindowMonth
	}

	summary, err := h.deps.InspectorStats(r.Context(), inspector, window)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statisticsResponse{
		Inspector: inspector,
		Window:    window,
		Summary:   summary,
	})
}
