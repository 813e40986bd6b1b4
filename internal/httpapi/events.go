package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
)

// handleEvents streams the board as server-sent events, one "projection" event per tick,
// until the client goes away or the server shuts down.
func (s *server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(s.opts.Tick)
	defer ticker.Stop()

	for {
		if err := writeEvent(w, "projection", s.board()); err != nil {
			logger.Debug("Event stream closed", "error", err)
			return
		}
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
