package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// handleProjectSessions reconstructs one project's sessions over the
// last N days (default 7). An unknown project is indistinguishable from
// a quiet one here: both yield an empty list, and the existence check
// is a dashboard concern.
func (s *Server) handleProjectSessions(w http.ResponseWriter, r *http.Request) {
	now := s.now().UTC()
	project := chi.URLParam(r, "project")

	days, ok := queryInt(r, "days", 7)
	if !ok || days <= 0 {
		writeError(w, http.StatusBadRequest, "days must be a positive integer")
		return
	}

	events, err := s.events.ListByProject(r.Context(), project, now.AddDate(0, 0, -days))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, domain.ReconstructSessions(events, now))
}
