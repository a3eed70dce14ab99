package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Lehoufi/AHP/internal/apperr"
	"github.com/Lehoufi/AHP/internal/hierarchy"
	"github.com/Lehoufi/AHP/internal/scoring"
	"github.com/Lehoufi/AHP/internal/store"
)

type errorBody struct {
	Error  string             `json:"error"`
	Groups []scoring.GroupRef `json:"groups,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusFor maps an engine or store error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrConflict),
		errors.Is(err, hierarchy.ErrFrozen),
		errors.Is(err, hierarchy.ErrLastChild):
		return http.StatusConflict
	case errors.Is(err, store.ErrNotFound), errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrIncompleteData),
		errors.Is(err, apperr.ErrNumeric),
		errors.Is(err, apperr.ErrUnsupportedSize):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var ie *scoring.IncompleteDataError
	if errors.As(err, &ie) {
		body.Groups = ie.Groups
	}
	writeJSON(w, statusFor(err), body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return false
	}
	return true
}

// ifMatch reads the expected decision version from If-Match. It returns 0
// when the header is absent.
func ifMatch(r *http.Request) (int, error) {
	v := strings.Trim(r.Header.Get("If-Match"), `" `)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, apperr.Validation("If-Match must be a decision version, got %q", v)
	}
	return n, nil
}
