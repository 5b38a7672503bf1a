// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mkabbani/evround/internal/domain/types"
)

// RecordsHandler handles history record requests.
type RecordsHandler struct {
	deps        Dependencies
	defaultLang types.Language
}

// NewRecordsHandler creates a new records handler.
func NewRecordsHandler(deps Dependencies, defaultLang types.Language) *RecordsHandler {
	return &RecordsHandler{deps: deps, defaultLang: defaultLang}
}

// HandleList handles GET /records requests, newest first.
func (h *RecordsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, err := h.deps.Records(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// HandleRecord dispatches /records/{id}, /records/{id}/report and
// /records/{id}/export.
func (h *RecordsHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/records/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, fmt.Errorf("%w: malformed record path", ErrBadRequest))
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		rec, err := h.deps.Record(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)

	case action == "report" && r.Method == http.MethodGet:
		doc, err := h.deps.Report(r.Context(), id, langFrom(r, h.defaultLang))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case action == "export" && r.Method == http.MethodPost:
		if err := h.deps.ExportReport(r.Context(), id, langFrom(r, h.defaultLang)); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusAccepted)

	default:
		http.NotFound(w, r)
	}
}
