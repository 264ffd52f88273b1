package domain

import (
	"fmt"
	"time"
)

// EventType identifies the lifecycle moment an event records.
type EventType string

const (
	EventPromptStart EventType = "prompt-start"
	EventResponseEnd EventType = "response-end"
	EventSessionEnd  EventType = "session-end"
)

// ParseEventType validates a raw event type string.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventPromptStart, EventResponseEnd, EventSessionEnd:
		return t, nil
	default:
		return "", fmt.Errorf("unknown event type: %q", s)
	}
}

// Event is a single lifecycle event emitted by a coding assistant.
// Events are immutable once recorded; several events share a SessionID,
// and events for one session may arrive out of chronological order.
type Event struct {
	ID        string    `json:"id"`
	Project   string    `json:"project"`
	Timestamp time.Time `json:"timestamp"`
	Machine   string    `json:"machine"`
	Agent     string    `json:"agent"`
	SessionID string    `json:"session_id"`
	Type      EventType `json:"event_type"`
}
