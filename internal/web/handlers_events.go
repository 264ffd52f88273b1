package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

type eventPayload struct {
	Project   string `json:"project"`
	Timestamp string `json:"timestamp"`
	Machine   string `json:"machine"`
	Agent     string `json:"agent"`
	SessionID string `json:"session_id"`
	EventType string `json:"event_type"`
}

// handleRecordEvent ingests one lifecycle event. Validation happens
// here, not in the core: the aggregation functions only ever see
// well-formed events. Duplicate submissions are silently accepted.
func (s *Server) handleRecordEvent(w http.ResponseWriter, r *http.Request) {
	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if payload.Project == "" || payload.SessionID == "" || payload.Machine == "" || payload.Agent == "" {
		writeError(w, http.StatusBadRequest, "project, session_id, machine and agent are required")
		return
	}

	eventType, err := domain.ParseEventType(payload.EventType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	timestamp, err := time.Parse(time.RFC3339, payload.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "timestamp must be RFC3339")
		return
	}

	event := &domain.Event{
		Project:   payload.Project,
		Timestamp: timestamp,
		Machine:   payload.Machine,
		Agent:     payload.Agent,
		SessionID: payload.SessionID,
		Type:      eventType,
	}

	if err := s.events.Insert(r.Context(), event); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "recorded"})
}
