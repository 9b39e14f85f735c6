package adapthttp

import (
	"errors"
	"net/http"

	"bettertogether/internal/app"
	"bettertogether/internal/domain"
)

func (s *Server) handleCalendarEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		items, err := s.calendar.ListEvents(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body struct {
			Title           string `json:"title"`
			Description     string `json:"description"`
			Date            string `json:"date"`
			Time            string `json:"time"`
			Type            string `json:"type"`
			Recurring       string `json:"recurring"`
			ReminderMinutes *int   `json:"reminderMinutes"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		in := app.EventInput{
			Title:           body.Title,
			Description:     body.Description,
			Time:            body.Time,
			Type:            domain.EventType(body.Type),
			Recurring:       domain.Recurrence(body.Recurring),
			ReminderMinutes: body.ReminderMinutes,
		}
		if body.Date != "" {
			d, err := domain.ParseDay(body.Date, s.cycles.Location())
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			in.Date = d
		}
		event, err := s.calendar.AddEvent(ctx, in)
		if err != nil {
			writeError(w, eventErrorStatus(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"event": event})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	items, err := s.calendar.Upcoming(r.Context(), intQuery(r, "limit", app.DefaultUpcomingLimit))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func eventErrorStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrTitleRequired),
		errors.Is(err, app.ErrEventDateRequired),
		errors.Is(err, app.ErrInvalidEventType),
		errors.Is(err, app.ErrInvalidRecurrence),
		errors.Is(err, app.ErrInvalidEventTime),
		errors.Is(err, app.ErrInvalidReminder):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
