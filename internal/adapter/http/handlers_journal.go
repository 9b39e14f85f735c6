package adapthttp

import (
	"errors"
	"net/http"

	"bettertogether/internal/app"
)

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		items, err := s.journal.List(ctx, intQuery(r, "limit", 0), r.URL.Query().Get("tag"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})

	case http.MethodPost:
		var body struct {
			Content  string   `json:"content"`
			Mood     string   `json:"mood"`
			Tags     []string `json:"tags"`
			Location string   `json:"location"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		entry, err := s.journal.Add(ctx, app.JournalInput{
			Content:  body.Content,
			Mood:     body.Mood,
			Tags:     body.Tags,
			Location: body.Location,
		})
		if errors.Is(err, app.ErrContentRequired) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
