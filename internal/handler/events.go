package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mlorentedev/sidehustler/internal/notify"
)

// ConsoleEvent is the SSE event name the UI listens for.
const ConsoleEvent = "console-message"

// keepAlive is how often an idle stream gets a comment line.
var keepAlive = 15 * time.Second

// Subscriber hands out notification streams.
type Subscriber interface {
	Subscribe() (<-chan notify.Message, func())
}

// Events streams notifications to the UI as Server-Sent Events.
func Events(s Subscriber) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		msgs, cancel := s.Subscribe()
		defer cancel()

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				data, err := json.Marshal(msg)
				if err != nil {
					slog.Error("encode event", "error", err)
					continue
				}
				fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", msg.ID, ConsoleEvent, data)
				flusher.Flush()
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()
			}
		}
	}
}
