package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/pulsedate/backend/internal/errors"
)

// ErrorBody is the JSON shape of every non-2xx response.
type ErrorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// RespondJSON writes a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// RespondError maps err through the central error mapper and writes the
// typed error body. Business outcomes keep their message; infrastructure
// faults are flattened to a generic retry hint.
func RespondError(w http.ResponseWriter, err error) {
	status := svcErr.Status(err)
	body := ErrorBody{Code: svcErr.Code(err), Error: err.Error()}
	if status >= http.StatusInternalServerError {
		body.Error = "temporary failure, try again"
	}
	if svcErr.IsInvalid(err) {
		body.Code = "INVALID_ARGUMENT"
	}
	RespondJSON(w, status, body)
}
