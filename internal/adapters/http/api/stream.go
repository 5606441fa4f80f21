package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/classplay/internal/adapters/broadcast"
)

const keepAliveInterval = 15 * time.Second

// StreamHandler serves session updates as Server-Sent Events.
type StreamHandler struct {
	deps      Dependencies
	keepAlive time.Duration
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(deps Dependencies) *StreamHandler {
	return &StreamHandler{deps: deps, keepAlive: keepAliveInterval}
}

// HandleStream handles GET /api/sessions/{id}/stream. The first event is the
// current view; later events are view changes and celebrations.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, ErrUnsupported))
		return
	}
	view, updates, cancel, err := h.deps.Subscribe(r.Context(), sessionID(r))
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, broadcast.Message{Event: broadcast.EventView, Data: view, At: time.Now()}); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg, ok := <-updates:
			if !ok {
				_, _ = fmt.Fprint(w, "event: end\ndata: {}\n\n")
				flusher.Flush()
				return
			}
			if err := writeEvent(w, msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, msg broadcast.Message) error {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return err
	}
	if msg.ID > 0 {
		if _, err := fmt.Fprintf(w, "id: %d\n", msg.ID); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, data)
	return err
}
