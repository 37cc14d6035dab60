// Package handlers implements the two hosted proxy endpoints. Each request
// is fully independent: decode, check configuration, assemble the prompt,
// call the provider, normalize, return. No state is shared across requests.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"lumina-backend/internal/models"
)

// completer is the slice of the provider service the handlers need.
type completer interface {
	Configured() error
	Complete(ctx context.Context, messages []models.ProviderMessage, maxTokens int) (string, error)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeFailure uses the endpoints' flat error body. All terminal failures
// (missing configuration, provider errors) surface as 500 with the message
// carried verbatim.
func writeFailure(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: message})
}
