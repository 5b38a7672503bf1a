// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkabbani/evround/internal/adapters/repository"
	"github.com/mkabbani/evround/internal/domain/model"
	"github.com/mkabbani/evround/internal/domain/report"
	"github.com/mkabbani/evround/internal/domain/session"
	"github.com/mkabbani/evround/internal/domain/stats"
	"github.com/mkabbani/evround/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Session lifecycle.
	CreateSession(ctx context.Context) (string, error)
	Session(id string) (*session.Controller, error)
	CloseSession(id string) error
	Submit(ctx context.Context, sessionID string, lang types.Language) (model.InspectionRecord, error)

	// Catalog access.
	Catalog(ctx context.Context) *model.Catalog
	CatalogStore() repository.CatalogStore
	ImportCatalog(ctx context.Context, data []byte) error
	ExportCatalog(ctx context.Context) ([]byte, error)

	// History and reporting.
	Records(ctx context.Context) ([]model.InspectionRecord, error)
	Record(ctx context.Context, id string) (model.InspectionRecord, error)
	Report(ctx context.Context, recordID string, lang types.Language) (report.Document, error)
	ExportReport(ctx context.Context, recordID string, lang types.Language) error

	// Aggregation.
	InspectorStats(ctx context.Context, inspectorName string, w stats.Window) (stats.Summary, error)
	InspectorTrend(ctx context.Context, inspectorName string, w stats.Window) ([]stats.TrendPoint, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	defaultLang types.Language

	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	sessionsHandler   *SessionsHandler
	recordsHandler    *RecordsHandler
	catalogHandler    *CatalogHandler
	adminHandler      *AdminHandler
	statisticsHandler *StatisticsHandler
	trendHandler      *TrendHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, defaultLang types.Language) *Server {
	return &Server{
		defaultLang:       defaultLang,
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		sessionsHandler:   NewSessionsHandler(deps, defaultLang),
		recordsHandler:    NewRecordsHandler(deps, defaultLang),
		catalogHandler:    NewCatalogHandler(deps, defaultLang),
		adminHandler:      NewAdminHandler(deps),
		statisticsHandler: NewStatisticsHandler(deps),
		trendHandler:      NewTrendHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSession, "sessions"))
	mux.HandleFunc("/records", MetricsMiddleware(s.recordsHandler.HandleList, "records"))
	mux.HandleFunc("/records/", MetricsMiddleware(s.recordsHandler.HandleRecord, "records"))
	mux.HandleFunc("/inspectors", MetricsMiddleware(s.catalogHandler.HandleInspectors, "inspectors"))
	mux.HandleFunc("/zones", MetricsMiddleware(s.catalogHandler.HandleZones, "zones"))
	mux.HandleFunc("/checklist", MetricsMiddleware(s.catalogHandler.HandleChecklist, "checklist"))
	mux.HandleFunc("/config/export", MetricsMiddleware(s.catalogHandler.HandleExport, "config_export"))
	mux.HandleFunc("/config/import", MetricsMiddleware(s.catalogHandler.HandleImport, "config_import"))
	mux.HandleFunc("/admin/inspectors", MetricsMiddleware(s.adminHandler.HandleInspectors, "admin_inspectors"))
	mux.HandleFunc("/admin/zones", MetricsMiddleware(s.adminHandler.HandleZones, "admin_zones"))
	mux.HandleFunc("/admin/items", MetricsMiddleware(s.adminHandler.HandleItems, "admin_items"))
	mux.HandleFunc("/statistics", MetricsMiddleware(s.statisticsHandler.HandleStatistics, "statistics"))
	mux.HandleFunc("/trend", MetricsMiddleware(s.trendHandler.HandleTrend, "trend"))
	mux.HandleFunc("/dashboard", s.trendHandler.HandleDashboard)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`

	// Remaining is set on incomplete-submission rejections.
	Remaining int `json:"remaining,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	resp := errorResponse{Code: code, Message: err.Error()}

	var incomplete *session.IncompleteError
	if errors.As(err, &incomplete) {
		resp.Remaining = incomplete.Remaining
	}
	writeJSON(w, status, resp)
}

// langFrom reads the lang query parameter, falling back to the server default.
func langFrom(r *http.Request, fallback types.Language) types.Language {
	switch r.URL.Query().Get("lang") {
	case string(types.English):
		return types.English
	case string(types.Arabic):
		return types.Arabic
	default:
		return fallback
	}
}
