package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/riztech/portfolio-api/internal/models"
)

// respondEnvelope writes the uniform response envelope. Every outcome the
// contact endpoint produces goes through here so clients always see the same
// shape.
func respondEnvelope(w http.ResponseWriter, status int, envelope models.ResponseEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func successEnvelope(message string) models.ResponseEnvelope {
	return models.ResponseEnvelope{Success: true, Message: message}
}

func failureEnvelope(message string) models.ResponseEnvelope {
	return models.ResponseEnvelope{Success: false, Message: message}
}
