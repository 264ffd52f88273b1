package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emiliopalmerini/codepulse/internal/ports"
)

//go:embed static/*
var staticFiles embed.FS

// Server is the thin HTTP layer over the event store and the pure
// aggregation core. It owns week-boundary arithmetic and request
// parsing; all statistics semantics live in internal/domain.
type Server struct {
	events      ports.EventRepository
	port        int
	tzOffsetMin int
	now         func() time.Time
	router      chi.Router
}

// NewServer wires the routes. tzOffsetMin is the default timezone
// offset applied when a request doesn't supply its own.
func NewServer(events ports.EventRepository, port, tzOffsetMin int) *Server {
	s := &Server{
		events:      events,
		port:        port,
		tzOffsetMin: tzOffsetMin,
		now:         time.Now,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusFound)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/api/events", s.handleRecordEvent)
	r.Get("/api/stats/weekly", s.handleWeeklyStats)
	r.Get("/api/stats/projects", s.handleProjectStats)
	r.Get("/api/projects/{project}/sessions", s.handleProjectSessions)

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("Starting server at http://localhost:%d\n", s.port)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
