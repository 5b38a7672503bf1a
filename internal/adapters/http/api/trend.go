// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/mkabbani/evround/internal/domain/stats"
)

// TrendHandler serves per-inspector score trends, as data points and as a
// rendered chart page.
type TrendHandler struct {
	deps Dependencies
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(deps Dependencies) *TrendHandler {
	return &TrendHandler{deps: deps}
}

// HandleTrend handles GET /trend?inspector=X&window=Y requests with the raw
// daily points as JSON.
func (h *TrendHandler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	points, inspector, window, err := h.points(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inspector": inspector,
		"window":    window,
		"points":    points,
	})
}

// HandleDashboard handles GET /dashboard?inspector=X&window=Y requests with
// a rendered line chart of the same points.
func (h *TrendHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	points, inspector, window, err := h.points(r)
	if err != nil {
		writeError(w, err)
		return
	}

	days := make([]string, len(points))
	values := make([]opts.LineData, len(points))
	for i, p := range points {
		days[i] = p.Day.Format("2006-01-02")
		values[i] = opts.LineData{Value: p.Average}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Inspection scores: %s", inspector),
			Subtitle: fmt.Sprintf("Daily mean percentage, window: %s", window),
		}),
	)
	line.SetXAxis(days).AddSeries("percentage", values)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		writeError(w, err)
	}
}

func (h *TrendHandler) points(r *http.Request) ([]stats.TrendPoint, string, stats.Window, error) {
	inspector := r.URL.Query().Get("inspector")
	if inspector == "" {
		return nil, "", "", fmt.Errorf("%w: missing inspector", ErrBadRequest)
	}
	window := stats.Window(r.URL.Query().Get("window"))
	if window == "" {
		window = stats.WindowMonth
	}
	points, err := h.deps.InspectorTrend(r.Context(), inspector, window)
	if err != nil {
		return nil, "", "", err
	}
	return points, inspector, window, nil
}
