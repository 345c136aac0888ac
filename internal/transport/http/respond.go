package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizdesk/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP responses. Validation failures
// become a field->messages object; everything unexpected is a 500 with the
// detail kept out of the response body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, verr.Fields)
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": err.Error()})
	default:
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFrom(r.Context()),
			"err", err,
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "internal server error"})
	}
}
