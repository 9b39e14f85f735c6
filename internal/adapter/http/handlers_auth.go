package adapthttp

import (
	"errors"
	"net/http"

	"bettertogether/internal/app"
)

func (s *Server) handleAuthState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	res := s.gate.Load(r.Context())
	writeGateResult(w, res)
}

func (s *Server) handleAuthPin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Pin string `json:"pin"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeGateResult(w, s.gate.Submit(r.Context(), body.Pin))
}

func (s *Server) handleAuthBack(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeGateResult(w, s.gate.Back())
}

func (s *Server) handleAuthLock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeGateResult(w, s.gate.Lock(r.Context()))
}

// writeGateResult always sends the gate state so the UI can render the right
// screen, with a status code reflecting the outcome.
func writeGateResult(w http.ResponseWriter, res app.GateResult) {
	writeJSON(w, gateStatus(res.Err), res)
}

func gateStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, app.ErrStorage):
		return http.StatusInternalServerError
	case errors.Is(err, app.ErrIncorrectPin):
		return http.StatusUnauthorized
	case errors.Is(err, app.ErrPinMissing):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
