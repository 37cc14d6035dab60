package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"lumina-backend/internal/models"
	"lumina-backend/internal/prompt"
	"lumina-backend/internal/services"
)

type ChatHandler struct {
	ai completer
}

func NewChatHandler(ai completer) *ChatHandler {
	return &ChatHandler{ai: ai}
}

// Assist is the chat-assistant endpoint: persona prompt plus the windowed
// history, one provider round trip, reply passed through unmodified.
func (h *ChatHandler) Assist(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, "Invalid request body")
		return
	}

	if err := h.ai.Configured(); err != nil {
		writeFailure(w, err.Error())
		return
	}

	messages := prompt.ChatMessages(req.Message, req.History, req.Language)

	reply, err := h.ai.Complete(r.Context(), messages, services.ChatMaxCompletionTokens)
	if err != nil {
		log.Printf("chat-assistant: provider error: %v", err)
		writeFailure(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: reply})
}
