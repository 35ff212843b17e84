package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jordanmv/recruitflow/internal/pipeline"
)

// runStream pushes pipeline events for one run over Server-Sent Events.
type runStream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func newRunStream(w http.ResponseWriter) (*runStream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &runStream{w: w, flusher: flusher}, nil
}

func (rs *runStream) emit(event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(rs.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(rs.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	rs.flusher.Flush()
	return nil
}

// progress forwards a pipeline step event to the client.
func (rs *runStream) progress(event pipeline.ProgressEvent) {
	rs.emit("progress", event) //nolint:errcheck
}

// fail terminates the stream with an error event.
func (rs *runStream) fail(message string) {
	rs.emit("error", map[string]string{"error": message}) //nolint:errcheck
}

// complete closes out the stream with the finished run.
func (rs *runStream) complete(result *pipeline.RunResult) {
	rs.emit("complete", map[string]any{ //nolint:errcheck
		"run_id": result.RunID.String(),
		"status": "completed",
		"result": result,
	})
}
