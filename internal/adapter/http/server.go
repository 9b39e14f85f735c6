// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"bettertogether/internal/app"

	"go.uber.org/zap"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	gate     *app.AuthGate
	cycles   *app.CycleService
	calendar *app.CalendarService
	journal  *app.JournalService
	log      *zap.Logger
}

// New creates a Server wired to the given application services.
func New(gate *app.AuthGate, cs *app.CycleService, cal *app.CalendarService, js *app.JournalService, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{gate: gate, cycles: cs, calendar: cal, journal: js, log: log}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/auth/state", s.handleAuthState)
	api.HandleFunc("/auth/pin", s.handleAuthPin)
	api.HandleFunc("/auth/back", s.handleAuthBack)
	api.HandleFunc("/auth/lock", s.handleAuthLock)

	gated := http.NewServeMux()
	gated.HandleFunc("/cycle/settings", s.handleCycleSettings)
	gated.HandleFunc("/cycle/entries", s.handleCycleEntries)
	gated.HandleFunc("/cycle/overview", s.handleCycleOverview)
	gated.HandleFunc("/moon", s.handleMoon)
	gated.HandleFunc("/calendar", s.handleCalendar)
	gated.HandleFunc("/calendar/events", s.handleCalendarEvents)
	gated.HandleFunc("/calendar/upcoming", s.handleUpcomingEvents)
	gated.HandleFunc("/journal", s.handleJournal)

	guarded := s.requireUnlocked(gated)
	api.Handle("/cycle/", guarded)
	api.Handle("/moon", guarded)
	api.Handle("/calendar", guarded)
	api.Handle("/calendar/", guarded)
	api.Handle("/journal", guarded)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(withNoCache(root))
}
