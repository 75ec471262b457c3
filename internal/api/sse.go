package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type SSEEvent struct {
	Event string `json:"-"`
	Data  any    `json:"-"`
}

type StreamStartEvent struct {
	RequestID string `json:"request_id"`
	Pipeline  string `json:"pipeline"`
}

type StreamChunkEvent struct {
	Text string `json:"text"`
}

type StreamDoneEvent struct {
	StopReason string `json:"stop_reason"`
	Model      string `json:"model"`
}

type StreamErrorEvent struct {
	Error string `json:"error"`
}

func (e SSEEvent) Format() (string, error) {
	jsonData, err := json.Marshal(e.Data)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("event: %s\ndata: %s\n\n", e.Event, string(jsonData)), nil
}

type eventWriter struct {
	writer  io.Writer
	flusher http.Flusher
}

func newEventWriter(writer io.Writer, flusher http.Flusher) *eventWriter {
	return &eventWriter{writer: writer, flusher: flusher}
}

func (w *eventWriter) send(event string, data any) error {
	formatted, err := SSEEvent{Event: event, Data: data}.Format()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(w.writer, formatted); err != nil {
		return err
	}
	w.flusher.Flush()
	return nil
}
