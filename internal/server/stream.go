package server

import (
	"fmt"
	"net/http"

	"github.com/ayusman/handsign/internal/capture"
	"github.com/ayusman/handsign/internal/server/api"
)

// StreamHandler serves the detection loop's frames as MJPEG. It never
// touches the camera; frames arrive only while the loop is running.
type StreamHandler struct {
	snapshots *capture.Snapshots
}

// NewStreamHandler creates a new StreamHandler reading from snapshots.
func NewStreamHandler(snapshots *capture.Snapshots) *StreamHandler {
	return &StreamHandler{snapshots: snapshots}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		api.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	detach := h.snapshots.Attach()
	defer detach()

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	var seq uint64
	for {
		data, next, err := h.snapshots.Next(r.Context(), seq)
		if err != nil {
			return
		}
		seq = next

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		if _, err := w.Write(data); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if flusher != nil {
			flusher.Flush()
		}
	}
}
