// Package event models recording-monitor webhook events and renders them
// into notification text.
package event

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Event types emitted by the recording monitor.
const (
	TypeSessionStarted = "SessionStarted"
	TypeFileOpening    = "FileOpening"
	TypeFileClosed     = "FileClosed"
	TypeSessionEnded   = "SessionEnded"
	TypeStreamStarted  = "StreamStarted"
	TypeStreamEnded    = "StreamEnded"
)

var ErrMissingID = errors.New("missing EventId")

// Event is one state-change notification from the recording monitor.
//
// EventData stays a raw map because the monitor sends different keys per
// event type (RoomId, Name, Title, Recording, Streaming, RelativePath,
// Duration, FileSize, ...). Values are rendered for display, never computed
// with, so no typed struct is warranted.
type Event struct {
	EventID        string         `json:"EventId"`
	EventType      string         `json:"EventType"`
	EventTimestamp string         `json:"EventTimestamp"`
	EventData      map[string]any `json:"EventData"`
}

// Decode parses a webhook body into an Event.
//
// Numbers decode as json.Number so payload values render back exactly as
// sent (a 10-digit FileSize must not turn into float notation).
func Decode(body []byte) (*Event, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var ev Event
	if err := dec.Decode(&ev); err != nil {
		return nil, err
	}
	// Reject trailing tokens (e.g. concatenated JSON documents).
	if dec.More() {
		return nil, errors.New("trailing data after event object")
	}
	return &ev, nil
}

// Validate reports whether the event may enter the pipeline.
// An event without an id cannot be deduplicated and is rejected up front.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.EventID) == "" {
		return ErrMissingID
	}
	return nil
}

// RoomID extracts EventData.RoomId when present and integral.
func (e *Event) RoomID() (int64, bool) {
	v, ok := e.EventData["RoomId"]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case json.Number:
		id, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return id, true
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	}
	return 0, false
}

// Field returns the display value for an EventData key, "-" when absent.
func (e *Event) Field(key string) string {
	v, ok := e.EventData[key]
	if !ok || v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}
