package adapthttp

import (
	"fmt"
	"net/http"
	"time"

	"bettertogether/internal/domain"
)

func (s *Server) handleMoon(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	at := s.cycles.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		t, err := parseInstant(v, s.cycles.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		at = t
	}
	resp := map[string]any{"at": at.Format(time.RFC3339), "moon": domain.MoonPhaseAt(at)}
	if days := intQuery(r, "days", 0); days > 0 {
		resp["days"] = domain.MoonPhasesBetween(at, min(days, 366))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	month := s.cycles.Now()
	if v := r.URL.Query().Get("month"); v != "" {
		t, err := time.ParseInLocation("2006-01", v, s.cycles.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("month must be YYYY-MM: %w", err))
			return
		}
		month = t
	}
	days, err := s.calendar.Month(r.Context(), month.Year(), month.Month())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"month": month.Format("2006-01"),
		"days":  days,
	})
}

// parseInstant accepts an RFC 3339 timestamp or a calendar day.
func parseInstant(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := domain.ParseDay(v, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("at must be RFC 3339 or YYYY-MM-DD: %w", err)
	}
	return t, nil
}
