package domain

import (
	"math"
	"math/rand"
	"reflect"
	"testing"
	"time"
)

var base = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) // a Monday

func ev(sessionID string, t EventType, offsetMin int) Event {
	return Event{
		Project:   "p1",
		Timestamp: base.Add(time.Duration(offsetMin) * time.Minute),
		Machine:   "laptop",
		Agent:     "claude-code",
		SessionID: sessionID,
		Type:      t,
	}
}

func TestReconstructSessions_FIFOPairing(t *testing.T) {
	// Prompts at t0 and t5, responses at t10 and t20. FIFO pairs the
	// first prompt with the first response (10min) and the second with
	// the second (15min): 25 total, not the 20 LIFO would produce.
	events := []Event{
		ev("s1", EventPromptStart, 0),
		ev("s1", EventPromptStart, 5),
		ev("s1", EventResponseEnd, 10),
		ev("s1", EventResponseEnd, 20),
	}

	sessions := ReconstructSessions(events, base.Add(time.Hour))
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	assertFloatNear(t, "ActiveMinutes", 25, sessions[0].ActiveMinutes)
}

func TestReconstructSessions_UnpairedPromptDefault(t *testing.T) {
	events := []Event{ev("s1", EventPromptStart, 0)}

	sessions := ReconstructSessions(events, base.Add(time.Hour))
	s := sessions[0]

	assertFloatNear(t, "ActiveMinutes", DefaultInteractionMinutes, s.ActiveMinutes)
	if s.End != nil {
		t.Errorf("expected open session, got end %v", s.End)
	}
	if s.SpanMinutes != 60 {
		t.Errorf("expected span measured to now (60), got %d", s.SpanMinutes)
	}
	if s.InteractionCount != 1 {
		t.Errorf("expected 1 interaction, got %d", s.InteractionCount)
	}
}

func TestReconstructSessions_OrphanedResponseDropped(t *testing.T) {
	// The leading response has no prompt to pair with; it must not
	// consume the later prompt's pairing slot either.
	events := []Event{
		ev("s1", EventResponseEnd, 0),
		ev("s1", EventPromptStart, 5),
		ev("s1", EventResponseEnd, 15),
	}

	sessions := ReconstructSessions(events, base.Add(time.Hour))
	assertFloatNear(t, "ActiveMinutes", 10, sessions[0].ActiveMinutes)
}

func TestReconstructSessions_ClockSkewClampedToZero(t *testing.T) {
	events := []Event{
		ev("s1", EventPromptStart, 10),
		ev("s1", EventResponseEnd, 10), // same minute: contributes 0
		ev("s1", EventSessionEnd, 11),
	}

	sessions := ReconstructSessions(events, base.Add(time.Hour))
	assertFloatNear(t, "ActiveMinutes", 0, sessions[0].ActiveMinutes)

	// A response that genuinely precedes its prompt pairs at zero too.
	skewed := []Event{
		{SessionID: "s2", Project: "p1", Type: EventPromptStart, Timestamp: base.Add(10 * time.Minute)},
		{SessionID: "s2", Project: "p1", Type: EventResponseEnd, Timestamp: base.Add(10*time.Minute + time.Second)},
		{SessionID: "s2", Project: "p1", Type: EventPromptStart, Timestamp: base.Add(30 * time.Minute)},
		{SessionID: "s2", Project: "p1", Type: EventResponseEnd, Timestamp: base.Add(29 * time.Minute)},
	}
	got := ReconstructSessions(skewed, base.Add(time.Hour))[0].ActiveMinutes
	if got < 0 {
		t.Fatalf("active minutes must never go negative, got %v", got)
	}
}

func TestReconstructSessions_OrderIndependence(t *testing.T) {
	events := []Event{
		ev("s1", EventPromptStart, 0),
		ev("s1", EventResponseEnd, 12),
		ev("s1", EventPromptStart, 20),
		ev("s1", EventSessionEnd, 45),
		ev("s2", EventPromptStart, 30),
	}
	now := base.Add(2 * time.Hour)
	want := ReconstructSessions(events, now)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]Event, len(events))
		copy(shuffled, events)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := ReconstructSessions(shuffled, now)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("permutation %d changed the result:\nwant %+v\ngot  %+v", i, want, got)
		}
	}
}

func TestReconstructSessions_ExplicitEnd(t *testing.T) {
	// session-end closes the session even though the last prompt has no
	// paired response.
	events := []Event{
		ev("s1", EventPromptStart, 0),
		ev("s1", EventResponseEnd, 10),
		ev("s1", EventPromptStart, 20),
		ev("s1", EventSessionEnd, 25),
	}

	s := ReconstructSessions(events, base.Add(time.Hour))[0]
	if !s.ExplicitEnd {
		t.Error("expected ExplicitEnd to be true")
	}
	if s.End == nil {
		t.Fatal("expected closed session")
	}
	if !s.End.Equal(base.Add(25 * time.Minute)) {
		t.Errorf("expected end at last event, got %v", s.End)
	}
	if s.SpanMinutes != 25 {
		t.Errorf("expected span 25, got %d", s.SpanMinutes)
	}
	// paired 10min + unpaired default 5min
	assertFloatNear(t, "ActiveMinutes", 15, s.ActiveMinutes)
}

func TestReconstructSessions_SessionEndOnly(t *testing.T) {
	events := []Event{ev("s1", EventSessionEnd, 0)}

	s := ReconstructSessions(events, base.Add(time.Hour))[0]
	assertFloatNear(t, "ActiveMinutes", 0, s.ActiveMinutes)
	if s.InteractionCount != 0 {
		t.Errorf("expected 0 interactions, got %d", s.InteractionCount)
	}
	if !s.ExplicitEnd {
		t.Error("expected ExplicitEnd to be true")
	}
}

func TestReconstructSessions_AttributesFromFirstEvent(t *testing.T) {
	// Machine/agent/project come from the chronologically first event,
	// even when it arrives last in the input.
	events := []Event{
		{SessionID: "s1", Project: "later", Machine: "desktop", Agent: "other", Type: EventResponseEnd, Timestamp: base.Add(10 * time.Minute)},
		{SessionID: "s1", Project: "first", Machine: "laptop", Agent: "claude-code", Type: EventPromptStart, Timestamp: base},
	}

	s := ReconstructSessions(events, base.Add(time.Hour))[0]
	assertEqual(t, "Project", "first", s.Project)
	assertEqual(t, "Machine", "laptop", s.Machine)
	assertEqual(t, "Agent", "claude-code", s.Agent)
	if !s.Start.Equal(base) {
		t.Errorf("expected start %v, got %v", base, s.Start)
	}
}

func TestReconstructSessions_SortedMostRecentFirst(t *testing.T) {
	events := []Event{
		ev("old", EventPromptStart, 0),
		ev("old", EventSessionEnd, 10),
		ev("new", EventPromptStart, 120),
		ev("new", EventSessionEnd, 130),
	}

	sessions := ReconstructSessions(events, base.Add(3*time.Hour))
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	assertEqual(t, "first", "new", sessions[0].SessionID)
	assertEqual(t, "second", "old", sessions[1].SessionID)
}

func TestReconstructSessions_Empty(t *testing.T) {
	sessions := ReconstructSessions(nil, base)
	if len(sessions) != 0 {
		t.Fatalf("expected no sessions, got %d", len(sessions))
	}
}

func assertEqual(t *testing.T, name, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %q, got %q", name, expected, actual)
	}
}

func assertFloatNear(t *testing.T, name string, expected, actual float64) {
	t.Helper()
	if math.Abs(expected-actual) > 0.0001 {
		t.Errorf("%s: expected %.4f, got %.4f", name, expected, actual)
	}
}
