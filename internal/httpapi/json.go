package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type errorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error, status string) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	writeJSON(w, code, errorResponse{Error: msg, Status: status})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}
