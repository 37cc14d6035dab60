package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lumina-backend/internal/models"
)

// ErrNotConfigured is returned when required Azure OpenAI settings are
// missing. Checked per request: there is no startup phase that could
// validate credentials earlier.
var ErrNotConfigured = errors.New("missing Azure OpenAI configuration")

const (
	// Completion token budgets per operation.
	ChatMaxCompletionTokens    = 300
	InsightMaxCompletionTokens = 2000
)

// AzureOpenAIService calls the chat-completions API of a single Azure
// OpenAI deployment. One round trip per call, no retry, no backoff; a 30s
// client timeout bounds every request.
type AzureOpenAIService struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
}

func NewAzureOpenAIService(endpoint, apiKey, deployment, apiVersion string) *AzureOpenAIService {
	return &AzureOpenAIService{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		deployment: deployment,
		apiVersion: apiVersion,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether the required provider settings are present.
// The API version has a default and is not part of the check.
func (s *AzureOpenAIService) Configured() error {
	if s.endpoint == "" || s.apiKey == "" || s.deployment == "" {
		return ErrNotConfigured
	}
	return nil
}

type chatCompletionRequest struct {
	Messages            []models.ProviderMessage `json:"messages"`
	MaxCompletionTokens int                      `json:"max_completion_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the message list to the deployment and returns the first
// choice's content.
func (s *AzureOpenAIService) Complete(ctx context.Context, messages []models.ProviderMessage, maxTokens int) (string, error) {
	if err := s.Configured(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		s.endpoint, s.deployment, s.apiVersion)

	body, err := json.Marshal(chatCompletionRequest{
		Messages:            messages,
		MaxCompletionTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read provider response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", fmt.Errorf("failed to decode provider response (status %d): %w", resp.StatusCode, err)
	}

	// Provider errors surface their message verbatim.
	if completion.Error != nil {
		return "", errors.New(completion.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Azure OpenAI returned status %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("Azure OpenAI returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
