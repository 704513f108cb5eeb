package eventstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types written by the generator.
const (
	TypePassStarted   = "pass_started"
	TypePageEmitted   = "page_emitted"
	TypeRuleSkipped   = "rule_skipped"
	TypePassCompleted = "pass_completed"
)

// Event is one journal row. Payload holds the JSON encoding of one of the
// payload types below, selected by Type.
type Event struct {
	ID        int64
	RunID     string
	Type      string
	Timestamp time.Time
	Payload   []byte
	Metadata  map[string]string
}

// PassStarted opens a run.
type PassStarted struct {
	Rules int `json:"rules"`
}

// PageEmitted records one descriptor handed to the sink.
type PageEmitted struct {
	Rule     int    `json:"rule"`
	Level    string `json:"level"`
	Path     string `json:"path"`
	Template string `json:"template"`
	URL      string `json:"url"`
	// Written is false when the sink found an identical page on disk.
	Written bool `json:"written"`
}

// RuleSkipped records a rule that produced no pages.
type RuleSkipped struct {
	Rule    int    `json:"rule"`
	Message string `json:"message"`
}

// PassCompleted closes a run.
type PassCompleted struct {
	Pages      int     `json:"pages"`
	Skipped    int     `json:"skipped_rules"`
	Outcome    string  `json:"outcome"`
	DurationMS float64 `json:"duration_ms"`
	Error      string  `json:"error,omitempty"`
}

// NewEvent encodes payload into an event of the given type.
func NewEvent(runID, eventType string, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{RunID: runID, Type: eventType, Timestamp: time.Now(), Payload: data}, nil
}

// Decode unmarshals the payload of e into T.
func Decode[T any](e Event) (T, error) {
	var v T
	if err := json.Unmarshal(e.Payload, &v); err != nil {
		return v, fmt.Errorf("unmarshal %s payload: %w", e.Type, err)
	}
	return v, nil
}
