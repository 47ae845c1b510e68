package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yourusername/finesse/pkg/trainer"
)

// SSEEvent represents a Server-Sent Event.
type SSEEvent struct {
	Event string      `json:"event"` // Event type: "drill", "done", "error"
	Data  interface{} `json:"data"`  // Event data
}

// DrillStream handles Server-Sent Events for streaming generated drills one
// at a time, so a client can present each drill as it arrives.
// GET /api/drill/stream?count=...&seed=...&category=...&piece=...
func (h *Handlers) DrillStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeSSEError(w, "streaming not supported")
		return
	}

	if h.pool != nil {
		if err := h.pool.AcquireSlowWithTimeout(5 * time.Second); err != nil {
			writeSSEError(w, "server busy")
			return
		}
		defer h.pool.ReleaseSlow()
	}

	opts, seed, err := drillOptionsFromQuery(r)
	if err != nil {
		writeSSEError(w, err.Error())
		return
	}

	drills, err := trainer.GenerateDrills(h.engine, opts)
	if err != nil {
		writeSSEError(w, err.Error())
		return
	}

	writeSSEEvent(w, "start", map[string]interface{}{"seed": seed, "count": len(drills)})
	flusher.Flush()

	for i, d := range drills {
		select {
		case <-r.Context().Done():
			return
		default:
		}
		writeSSEEvent(w, "drill", map[string]interface{}{"index": i, "drill": d})
		flusher.Flush()
	}

	writeSSEEvent(w, "done", nil)
	flusher.Flush()
}

// writeSSEEvent writes a Server-Sent Event to the response.
func writeSSEEvent(w http.ResponseWriter, event string, data interface{}) {
	fmt.Fprintf(w, "event: %s\n", event)
	if data != nil {
		jsonData, _ := json.Marshal(data)
		fmt.Fprintf(w, "data: %s\n", jsonData)
	}
	fmt.Fprintf(w, "\n")
}

// writeSSEError writes an error event and closes the stream.
func writeSSEError(w http.ResponseWriter, message string) {
	writeSSEEvent(w, "error", map[string]string{"error": message})
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
