package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/gesturerelay/internal/preview"
)

// streamInterval paces the preview at roughly 15 FPS.
const streamInterval = 66 * time.Millisecond

// StreamHandler serves the skeleton preview as MJPEG.
type StreamHandler struct {
	renderer *preview.Renderer
}

// NewStreamHandler creates a new StreamHandler for the given renderer.
func NewStreamHandler(renderer *preview.Renderer) *StreamHandler {
	return &StreamHandler{renderer: renderer}
}

// ServeHTTP streams preview frames until the client goes away.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	for {
		buf, err := h.renderer.Encode()
		if err == nil {
			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(buf))
			if _, err := w.Write(buf); err != nil {
				return
			}
			fmt.Fprintf(w, "\r\n")

			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
