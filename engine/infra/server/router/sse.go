package router

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SSEStream writes server-sent-event frames, flushing after every write so
// each outcome reaches the client immediately.
type SSEStream struct {
	writer  http.ResponseWriter
	flusher http.Flusher
}

// StartSSE switches the response to an event stream. It returns nil when the
// writer cannot flush, which means streaming is impossible.
func StartSSE(w http.ResponseWriter) *SSEStream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}
	header := w.Header()
	header.Set("Content-Type", "text/event-stream")
	header.Set("Cache-Control", "no-cache")
	header.Set("Connection", "keep-alive")
	header.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	return &SSEStream{writer: w, flusher: flusher}
}

// WriteData marshals v and sends it as one data frame.
func (s *SSEStream) WriteData(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal SSE payload: %w", err)
	}
	if _, err := fmt.Fprintf(s.writer, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("failed to write SSE frame: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteHeartbeat sends a comment frame to keep intermediaries from closing
// an idle stream.
func (s *SSEStream) WriteHeartbeat() error {
	if _, err := fmt.Fprint(s.writer, ": heartbeat\n\n"); err != nil {
		return fmt.Errorf("failed to write SSE heartbeat: %w", err)
	}
	s.flusher.Flush()
	return nil
}
