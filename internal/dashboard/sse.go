package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kamilpajak/runalyze/internal/analysis"
)

// SSE event names. The browser's EventSource reserves "error" for connection
// failures, so a failed analysis is sent as "failed".
const (
	eventProgress = "progress"
	eventReport   = "report"
	eventFailed   = "failed"
)

// eventName maps a progress event type to its SSE event name.
func eventName(typ string) string {
	switch typ {
	case "done":
		return eventReport
	case "error":
		return eventFailed
	default:
		return eventProgress
	}
}

// SSEEmitter streams analysis progress to the dashboard as named
// Server-Sent Events.
type SSEEmitter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEEmitter sets the stream headers on w. It returns nil when w cannot
// flush.
func NewSSEEmitter(w http.ResponseWriter) *SSEEmitter {
	f, ok := w.(http.Flusher)
	if !ok {
		return nil
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	return &SSEEmitter{w: w, flusher: f}
}

// Emit writes one event and flushes it.
func (e *SSEEmitter) Emit(ev analysis.ProgressEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", eventName(ev.Type), data)
	e.flusher.Flush()
}
