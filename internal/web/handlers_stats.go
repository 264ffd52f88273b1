package web

import (
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/emiliopalmerini/codepulse/internal/domain"
	"github.com/emiliopalmerini/codepulse/internal/util"
)

// handleWeeklyStats serves the dashboard aggregate for one week.
// week_start defaults to the current week's Monday 00:00Z; tz_offset is
// minutes east of UTC and defaults to the server configuration.
func (s *Server) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()

	weekStart := util.WeekStart(now)
	if raw := r.URL.Query().Get("week_start"); raw != "" {
		parsed, err := parseWeekStart(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "week_start must be RFC3339 or YYYY-MM-DD")
			return
		}
		weekStart = parsed
	}

	tzOffset, ok := queryInt(r, "tz_offset", s.tzOffsetMin)
	if !ok {
		writeError(w, http.StatusBadRequest, "tz_offset must be an integer number of minutes")
		return
	}

	// The two windows are independent reads; fetch them concurrently.
	var weekEvents, streakEvents []domain.Event
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		weekEvents, err = s.events.ListRange(gctx, weekStart, weekStart.AddDate(0, 0, 7))
		return err
	})
	g.Go(func() error {
		var err error
		streakEvents, err = s.events.ListSince(gctx, now.AddDate(-1, 0, 0))
		return err
	})
	if err := g.Wait(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	stats := domain.ComputeWeeklyStats(weekEvents, streakEvents, weekStart, tzOffset, now)
	writeJSON(w, http.StatusOK, stats)
}

// handleProjectStats serves the flat all-projects view over the last N
// days (default 30).
func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()

	days, ok := queryInt(r, "days", 30)
	if !ok || days <= 0 {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	events, err := s.events.ListSince(r.Context(), now.AddDate(0, 0, -days))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, domain.ProjectStatsAll(events, now))
}

func parseWeekStart(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
