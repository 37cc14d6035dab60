// Package client is the app-side integration layer: it invokes the hosted
// proxy endpoints, gates usage through the quota tracker, and normalizes
// every failure into displayable content. Nothing here ever surfaces a raw
// error to the UI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lumina-backend/internal/models"
)

// Gateway invokes the hosted functions. One POST per operation, no retry,
// no backoff; whatever error comes back propagates to the normalizing
// caller, which is the resiliency mechanism for this whole integration.
type Gateway struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

func NewGateway(baseURL, anonKey string) *Gateway {
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Invoke posts the payload to the named function and returns the raw
// response body of a 200.
func (g *Gateway) Invoke(ctx context.Context, operation string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", operation, err)
	}

	url := g.baseURL + "/functions/v1/" + operation
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", g.anonKey)
	req.Header.Set("Authorization", "Bearer "+g.anonKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		var failure models.ErrorResponse
		if json.Unmarshal(data, &failure) == nil && failure.Error != "" {
			return nil, fmt.Errorf("%s returned status %d: %s", operation, resp.StatusCode, failure.Error)
		}
		return nil, fmt.Errorf("%s returned status %d", operation, resp.StatusCode)
	}

	return data, nil
}
