package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"lumina-backend/internal/models"
	"lumina-backend/internal/normalize"
	"lumina-backend/internal/prompt"
	"lumina-backend/internal/services"
)

type InsightHandler struct {
	ai completer
}

func NewInsightHandler(ai completer) *InsightHandler {
	return &InsightHandler{ai: ai}
}

// insightResponse is the wire payload plus a tag telling callers when the
// deterministic fallback replaced unparseable model output.
type insightResponse struct {
	models.InsightPayload
	Degraded string `json:"degraded,omitempty"`
}

// Generate is the generate-insight endpoint. Parse failures never surface:
// the deterministic fallback payload goes out as a 200 instead.
func (h *InsightHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "Invalid request body")
		return
	}

	if err := h.ai.Configured(); err != nil {
		writeFailure(w, err.Error())
		return
	}

	messages := prompt.InsightMessages(req.MoodLevel, req.JournalContent, req.Language)

	raw, err := h.ai.Complete(r.Context(), messages, services.InsightMaxCompletionTokens)
	if err != nil {
		log.Printf("generate-insight: provider error: %v", err)
		writeFailure(w, err.Error())
		return
	}

	payload, status, reason := normalize.ExtractInsight(raw)

	resp := insightResponse{InsightPayload: payload}
	if status == normalize.StatusFallback {
		log.Printf("generate-insight: using fallback payload: %s", reason)
		resp.Degraded = reason
	}

	writeJSON(w, http.StatusOK, resp)
}
