package domain

import (
	"math"
	"sort"
	"time"
)

// DefaultInteractionMinutes is credited for a prompt that never received
// a response: the interaction crashed, lost network, or was abandoned.
const DefaultInteractionMinutes = 5.0

// Session is one coherent unit of work under a single session ID. It is
// derived from raw events on every query and never persisted.
type Session struct {
	SessionID        string     `json:"session_id"`
	Project          string     `json:"project"`
	Agent            string     `json:"agent"`
	Machine          string     `json:"machine"`
	Start            time.Time  `json:"start"`
	End              *time.Time `json:"end"`
	SpanMinutes      int        `json:"span_minutes"`
	ActiveMinutes    float64    `json:"active_minutes"`
	InteractionCount int        `json:"interaction_count"`
	ExplicitEnd      bool       `json:"explicit_end"`
}

// ReconstructSessions derives one Session per session ID from an event
// list and returns them most recent first. Input order is irrelevant:
// each group is re-sorted by timestamp before derivation, so any
// permutation of the same events yields the same result.
//
// Spans of still-open sessions are measured against now, which callers
// inject so results stay reproducible under test.
func ReconstructSessions(events []Event, now time.Time) []Session {
	groups := make(map[string][]Event)
	for _, e := range events {
		groups[e.SessionID] = append(groups[e.SessionID], e)
	}

	sessions := make([]Session, 0, len(groups))
	for _, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Timestamp.Before(group[j].Timestamp)
		})
		sessions = append(sessions, deriveSession(group, now))
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Start.After(sessions[j].Start)
	})
	return sessions
}

func deriveSession(group []Event, now time.Time) Session {
	first := group[0]

	s := Session{
		SessionID: first.SessionID,
		Project:   first.Project,
		Agent:     first.Agent,
		Machine:   first.Machine,
		Start:     first.Timestamp,
	}

	for _, e := range group {
		switch e.Type {
		case EventPromptStart:
			s.InteractionCount++
		case EventSessionEnd:
			s.ExplicitEnd = true
		}
	}

	s.ActiveMinutes = activeMinutes(group)

	if isOpen(group) {
		s.SpanMinutes = roundMinutes(now.Sub(s.Start))
		return s
	}

	end := group[len(group)-1].Timestamp
	s.End = &end
	s.SpanMinutes = roundMinutes(end.Sub(s.Start))
	return s
}

// isOpen reports whether a sorted event group describes a session that
// has not yet concluded: no session-end was recorded and no response
// arrived after the most recent prompt.
func isOpen(group []Event) bool {
	lastPrompt := -1
	for i, e := range group {
		if e.Type == EventSessionEnd {
			return false
		}
		if e.Type == EventPromptStart {
			lastPrompt = i
		}
	}
	for _, e := range group[lastPrompt+1:] {
		if e.Type == EventResponseEnd {
			return false
		}
	}
	return true
}

// activeMinutes sums the working intervals of a sorted event group.
// Prompts and responses are paired FIFO: rapid-fire follow-up prompts
// pair with responses in submission order, so the earliest work is
// never credited out of order. A response with no unpaired prompt is
// dropped; a pair whose response precedes its prompt (clock skew)
// contributes zero; prompts left unpaired at the end are credited the
// default interaction minutes. The sum is rounded to one decimal.
func activeMinutes(group []Event) float64 {
	var pending []time.Time
	var total float64

	for _, e := range group {
		switch e.Type {
		case EventPromptStart:
			pending = append(pending, e.Timestamp)
		case EventResponseEnd:
			if len(pending) == 0 {
				continue
			}
			prompt := pending[0]
			pending = pending[1:]
			if mins := e.Timestamp.Sub(prompt).Minutes(); mins > 0 {
				total += mins
			}
		}
	}

	total += float64(len(pending)) * DefaultInteractionMinutes
	return math.Round(total*10) / 10
}

func roundMinutes(d time.Duration) int {
	return int(math.Round(d.Minutes()))
}
