// Package embed generates embedding vectors for indexed pages through an
// OpenAI-compatible embeddings API.
package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is an HTTP client for an OpenAI-compatible embeddings API
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	retryDelay time.Duration
	httpClient *http.Client
}

// NewClient creates an embeddings client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    baseURL,
		retryDelay: 2 * time.Second,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Configured reports whether the client has credentials.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateEmbedding returns the embedding vector for text. A rate-limited
// call is retried once after a fixed backoff; other failures surface
// immediately.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vector, retryable, err := c.generate(ctx, text)
	if err != nil && retryable {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}
		vector, _, err = c.generate(ctx, text)
	}
	return vector, err
}

func (c *Client) generate(ctx context.Context, text string) ([]float32, bool, error) {
	body, err := json.Marshal(embeddingRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		retryable := resp.StatusCode == http.StatusTooManyRequests
		var errResp errorResponse
		if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, retryable, fmt.Errorf("embedding API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, retryable, fmt.Errorf("embedding API returned status %d: %s", resp.StatusCode, string(data))
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, false, fmt.Errorf("no embedding data in response")
	}
	return parsed.Data[0].Embedding, false, nil
}
