// Package httpx holds small JSON response helpers for the operational endpoints.
package httpx

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse is the body of the health endpoints. Checks is only set by
// the deep check.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

const (
	StatusOK   = "ok"
	StatusFail = "fail"
)

// JSON writes payload with the given status. Encoding happens before the
// header is sent so that a marshal failure still yields a clean 500.
func JSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"encode_error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Health writes checks with 200 when all of them are ok and 503 otherwise.
func Health(w http.ResponseWriter, checks map[string]string) {
	resp := HealthResponse{Status: StatusOK, Checks: checks}
	for _, s := range checks {
		if s != StatusOK {
			resp.Status = StatusFail
		}
	}
	status := http.StatusOK
	if resp.Status != StatusOK {
		status = http.StatusServiceUnavailable
	}
	JSON(w, status, resp)
}
