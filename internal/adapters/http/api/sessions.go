package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/classplay/internal/domain/model"
)

// createRequest mirrors the OpenAPI schema for POST /api/sessions.
type createRequest struct {
	Kind       string `json:"kind"`
	Difficulty string `json:"difficulty,omitempty"`
}

func (c createRequest) validate() error {
	if strings.TrimSpace(c.Kind) == "" {
		return errors.New("missing kind")
	}
	return nil
}

// actionRequest mirrors the OpenAPI schema for POST /api/sessions/{id}/actions.
type actionRequest struct {
	ActionID    string `json:"action_id,omitempty"`
	Type        string `json:"type"`
	Label       string `json:"label,omitempty"`
	Mood        string `json:"mood,omitempty"`
	ChallengeID int    `json:"challenge_id,omitempty"`
	Slot        string `json:"slot,omitempty"`
	Word        string `json:"word,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

func (a actionRequest) validate() error {
	if strings.TrimSpace(a.Type) == "" {
		return errors.New("missing type")
	}
	if len(a.ActionID) > 128 {
		return errors.New("action_id longer than 128 bytes")
	}
	return nil
}

func (a actionRequest) action() model.Action {
	return model.Action{
		ID:          a.ActionID,
		Type:        a.Type,
		Label:       a.Label,
		Mood:        a.Mood,
		ChallengeID: a.ChallengeID,
		Slot:        a.Slot,
		Word:        a.Word,
		Difficulty:  a.Difficulty,
	}
}

type sessionSummary struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
}

type listResponse struct {
	Sessions []sessionSummary `json:"sessions"`
}

// SessionsHandler handles session lifecycle and action requests.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandleCreate handles POST /api/sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.CreateSession(r.Context(), req.Kind, req.Difficulty)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	w.Header().Set("Location", "/api/sessions/"+view.ID)
	writeJSON(w, http.StatusCreated, view)
}

// HandleList handles GET /api/sessions.
func (h *SessionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	infos, err := h.deps.Sessions(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.list_sessions", err))
		return
	}
	resp := listResponse{Sessions: make([]sessionSummary, 0, len(infos))}
	for _, info := range infos {
		resp.Sessions = append(resp.Sessions, sessionSummary(info))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/sessions/{id}.
func (h *SessionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.View(r.Context(), sessionID(r))
	if err != nil {
		writeFailure(w, Wrap("api.get_session", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /api/sessions/{id}.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.CloseSession(r.Context(), sessionID(r)); err != nil {
		writeFailure(w, Wrap("api.delete_session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAction handles POST /api/sessions/{id}/actions.
func (h *SessionsHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_action"
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	view, err := h.deps.Dispatch(r.Context(), sessionID(r), req.action())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
