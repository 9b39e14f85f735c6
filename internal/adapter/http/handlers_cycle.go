package adapthttp

import (
	"errors"
	"net/http"

	"bettertogether/internal/app"
	"bettertogether/internal/domain"
)

func (s *Server) handleCycleSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		settings, err := s.cycles.Settings(ctx)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)

	case http.MethodPatch:
		var body struct {
			AverageCycleLength  *int                       `json:"averageCycleLength"`
			AveragePeriodLength *int                       `json:"averagePeriodLength"`
			LastPeriodStart     *string                    `json:"lastPeriodStart"`
			Notifications       *domain.CycleNotifications `json:"notifications"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		patch := app.CycleSettingsPatch{
			AverageCycleLength:  body.AverageCycleLength,
			AveragePeriodLength: body.AveragePeriodLength,
			Notifications:       body.Notifications,
		}
		if body.LastPeriodStart != nil {
			d, err := domain.ParseDay(*body.LastPeriodStart, s.cycles.Location())
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			patch.LastPeriodStart = &d
		}
		settings, err := s.cycles.UpdateSettings(ctx, patch)
		if err != nil {
			writeError(w, cycleErrorStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, settings)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCycleEntries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		items, err := s.cycles.ListEntries(ctx, intQuery(r, "limit", 0))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body struct {
			StartDate string   `json:"startDate"`
			EndDate   string   `json:"endDate"`
			Flow      string   `json:"flow"`
			Symptoms  []string `json:"symptoms"`
			Mood      []string `json:"mood"`
			Notes     string   `json:"notes"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		in := app.CycleEntryInput{
			Flow:     domain.Flow(body.Flow),
			Symptoms: body.Symptoms,
			Mood:     body.Mood,
			Notes:    body.Notes,
		}
		loc := s.cycles.Location()
		if body.StartDate != "" {
			d, err := domain.ParseDay(body.StartDate, loc)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			in.StartDate = d
		}
		if body.EndDate != "" {
			d, err := domain.ParseDay(body.EndDate, loc)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			in.EndDate = &d
		}
		entry, err := s.cycles.RecordEntry(ctx, in)
		if err != nil {
			writeError(w, cycleErrorStatus(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleCycleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ov, err := s.cycles.Overview(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func cycleErrorStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrStartDateRequired),
		errors.Is(err, app.ErrEndBeforeStart),
		errors.Is(err, app.ErrInvalidFlow),
		errors.Is(err, app.ErrInvalidLength):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
