package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

const (
	statusSuccessful = "successful"
	statusError      = "error"
)

// Envelope is the uniform response wrapper for success and error outcomes.
type Envelope struct {
	Message string      `json:"Message"`
	Payload interface{} `json:"payload"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// respondOK writes a successful envelope.
func respondOK(w http.ResponseWriter, payload interface{}) {
	writeJSON(w, http.StatusOK, Envelope{Message: statusSuccessful, Payload: payload})
}

// respondError writes an error envelope. Domain failures use 200; malformed
// requests and internal faults use their HTTP status.
func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Message: statusError, Payload: message})
}
