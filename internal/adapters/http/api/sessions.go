// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mkabbani/evround/internal/domain/session"
	"github.com/mkabbani/evround/internal/domain/types"
)

// SessionsHandler handles the inspection session flow.
type SessionsHandler struct {
	deps        Dependencies
	defaultLang types.Language
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies, defaultLang types.Language) *SessionsHandler {
	return &SessionsHandler{deps: deps, defaultLang: defaultLang}
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type sessionStateResponse struct {
	State      session.State      `json:"state"`
	Completion session.Completion `json:"completion"`
	Percentage float64            `json:"percentage"`
}

type selectInspectorRequest struct {
	InspectorID string `json:"inspectorId"`
}

type selectCategoryRequest struct {
	Category types.Category `json:"category"`
}

type selectZoneRequest struct {
	ZoneID string `json:"zoneId"`
}

type scoreRequest struct {
	ItemID string `json:"itemId"`
	Score  int    `json:"score"`
}

type noteRequest struct {
	ItemID string `json:"itemId"`
	Text   string `json:"text"`
}

type observationRequest struct {
	ItemID string `json:"itemId"`
	Tag    string `json:"tag"`
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	id, err := h.deps.CreateSession(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id})
}

// HandleSession dispatches /sessions/{id} and /sessions/{id}/{action}.
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" || strings.Contains(action, "/") {
		writeError(w, fmt.Errorf("%w: malformed session path", ErrBadRequest))
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.handleStatus(w, r, id)
	case action == "" && r.Method == http.MethodDelete:
		h.handleClose(w, r, id)
	case r.Method == http.MethodPost:
		h.handleAction(w, r, id, action)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) handleStatus(w http.ResponseWriter, _ *http.Request, id string) {
	ctrl, err := h.deps.Session(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionStateResponse{
		State:      ctrl.State(),
		Completion: ctrl.Status(),
		Percentage: ctrl.Percentage(),
	})
}

func (h *SessionsHandler) handleClose(w http.ResponseWriter, _ *http.Request, id string) {
	if err := h.deps.CloseSession(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionsHandler) handleAction(w http.ResponseWriter, r *http.Request, id, action string) {
	ctrl, err := h.deps.Session(id)
	if err != nil {
		writeError(w, err)
		return
	}

	switch action {
	case "inspector":
		var req selectInspectorRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		h.respond(w, ctrl, ctrl.SelectInspector(req.InspectorID))

	case "category":
		var req selectCategoryRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		h.respond(w, ctrl, ctrl.SelectCategory(req.Category))

	case "zone":
		var req selectZoneRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		h.respond(w, ctrl, ctrl.SelectZone(req.ZoneID))

	case "start":
		if err := ctrl.Start(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ctrl.Items())

	case "score":
		var req scoreRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		h.respond(w, ctrl, ctrl.SetScore(req.ItemID, req.Score))

	case "note":
		var req noteRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		h.respond(w, ctrl, ctrl.SetNote(req.ItemID, req.Text))

	case "observation":
		var req observationRequest
		if err := decode(r, &req); err != nil {
			writeError(w, err)
			return
		}
		h.respond(w, ctrl, ctrl.ToggleObservation(req.ItemID, req.Tag))

	case "submit":
		rec, err := h.deps.Submit(r.Context(), id, langFrom(r, h.defaultLang))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rec)

	case "reset":
		ctrl.Reset()
		h.respond(w, ctrl, nil)

	default:
		http.NotFound(w, r)
	}
}

// respond writes the session state after a mutation, or the error that
// blocked it.
func (h *SessionsHandler) respond(w http.ResponseWriter, ctrl *session.Controller, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionStateResponse{
		State:      ctrl.State(),
		Completion: ctrl.Status(),
		Percentage: ctrl.Percentage(),
	})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return nil
}
