package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"lumina-backend/internal/models"
	"lumina-backend/internal/normalize"
	"lumina-backend/internal/quota"
)

// ChatService drives the chat flow: quota gate, increment before the call,
// and an apology fallback so the user always sees a reply.
type ChatService struct {
	gateway  *Gateway
	quota    *quota.Tracker
	language string
}

func NewChatService(gateway *Gateway, tracker *quota.Tracker, language string) *ChatService {
	if language == "" {
		language = "id"
	}
	return &ChatService{gateway: gateway, quota: tracker, language: language}
}

// CheckQuota reports today's chat allowance. Callers must gate on this and
// present the limit-reached path instead of calling Send when not allowed.
func (s *ChatService) CheckQuota(ctx context.Context, tier quota.Tier) quota.Status {
	return s.quota.Check(ctx, quota.FeatureChat, tier)
}

// SendResult is a chat reply tagged with whether it is real model output.
type SendResult struct {
	Reply  string
	Status normalize.Status
	Reason string
}

// Send submits one chat turn. Quota is consumed here, before the remote
// call resolves: a failed attempt still counts, and retries do not get a
// second allowance just because the previous attempt errored. Never returns
// an error; failures collapse to the fixed apology reply.
func (s *ChatService) Send(ctx context.Context, text string, history []models.ChatMessage) SendResult {
	// Increment failures fail open, same as the tracker's reads.
	s.quota.Increment(ctx, quota.FeatureChat)

	providerHistory := make([]models.ProviderMessage, 0, len(history))
	for _, m := range history {
		role := "assistant"
		if m.IsUser {
			role = "user"
		}
		providerHistory = append(providerHistory, models.ProviderMessage{Role: role, Content: m.Text})
	}

	raw, err := s.gateway.Invoke(ctx, "chat-assistant", models.ChatRequest{
		Message:  text,
		History:  providerHistory,
		Language: s.language,
	})
	if err != nil {
		return SendResult{Reply: normalize.ChatFallback, Status: normalize.StatusFallback, Reason: err.Error()}
	}

	var resp models.ChatResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.Reply == "" {
		return SendResult{Reply: normalize.ChatFallback, Status: normalize.StatusFallback, Reason: "malformed gateway response"}
	}

	return SendResult{Reply: resp.Reply, Status: normalize.StatusOK}
}

// NewUserMessage builds the next user entry for the session transcript.
func NewUserMessage(text string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    true,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewAssistantMessage builds the assistant entry for a received reply.
func NewAssistantMessage(text string) models.ChatMessage {
	return models.ChatMessage{
		ID:        uuid.NewString(),
		Text:      text,
		IsUser:    false,
		Timestamp: time.Now().UnixMilli(),
	}
}
