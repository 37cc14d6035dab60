package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lumina-backend/internal/models"
)

func completionBody(content string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	return string(body)
}

func TestComplete_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody chatCompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("api-key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(completionBody("hello there")))
	}))
	defer srv.Close()

	svc := NewAzureOpenAIService(srv.URL, "secret-key", "gpt-4o-mini", "2024-08-01-preview")

	reply, err := svc.Complete(context.Background(), []models.ProviderMessage{
		{Role: "user", Content: "hi"},
	}, ChatMaxCompletionTokens)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "hello there" {
		t.Errorf("Expected 'hello there', got %q", reply)
	}

	if gotPath != "/openai/deployments/gpt-4o-mini/chat/completions?api-version=2024-08-01-preview" {
		t.Errorf("unexpected request path: %q", gotPath)
	}
	if gotKey != "secret-key" {
		t.Errorf("Expected api-key header, got %q", gotKey)
	}
	if gotBody.MaxCompletionTokens != ChatMaxCompletionTokens {
		t.Errorf("Expected max_completion_tokens %d, got %d", ChatMaxCompletionTokens, gotBody.MaxCompletionTokens)
	}
}

func TestComplete_ProviderErrorMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Access denied due to invalid subscription key"}}`))
	}))
	defer srv.Close()

	svc := NewAzureOpenAIService(srv.URL, "bad-key", "gpt-4o-mini", "2024-08-01-preview")

	_, err := svc.Complete(context.Background(), nil, ChatMaxCompletionTokens)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Access denied due to invalid subscription key" {
		t.Errorf("Expected provider message verbatim, got %q", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	svc := NewAzureOpenAIService(srv.URL, "key", "dep", "v")

	if _, err := svc.Complete(context.Background(), nil, 100); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestConfigured(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		key        string
		deployment string
		wantErr    bool
	}{
		{"all present", "https://x.openai.azure.com", "k", "d", false},
		{"missing endpoint", "", "k", "d", true},
		{"missing key", "https://x.openai.azure.com", "", "d", true},
		{"missing deployment", "https://x.openai.azure.com", "k", "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAzureOpenAIService(tc.endpoint, tc.key, tc.deployment, "v")
			err := svc.Configured()
			if tc.wantErr && err == nil {
				t.Error("expected ErrNotConfigured")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tc.wantErr && !strings.Contains(err.Error(), "configuration") {
				t.Errorf("error must mention configuration, got %q", err)
			}
		})
	}
}
