package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/domain"
	"github.com/AbhishekSingh805138/Comment-Analyzer/internal/ports"
)

// Client talks to an external model-serving endpoint for stance and
// sentiment inference.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Classifier = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

// ClassifyStance sends the text with the closed label set for zero-shot
// ranking. The service returns labels sorted by descending score.
func (c *Client) ClassifyStance(ctx context.Context, text string, labels []string) (domain.StanceResult, error) {
	payload := map[string]any{
		"text":        text,
		"labels":      labels,
		"multi_label": false,
	}

	var result domain.StanceResult
	if err := c.post(ctx, "/stance", payload, &result); err != nil {
		return domain.StanceResult{}, err
	}
	if len(result.Labels) == 0 {
		return domain.StanceResult{}, fmt.Errorf("stance response carried no labels")
	}

	return result, nil
}

// ClassifySentiment requests the raw sentiment label and confidence.
func (c *Client) ClassifySentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	payload := map[string]any{"text": text}

	var result domain.SentimentResult
	if err := c.post(ctx, "/sentiment", payload, &result); err != nil {
		return domain.SentimentResult{}, err
	}

	return result, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			return fmt.Errorf("unexpected status %s, close body: %v", resp.Status, closeErr)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("decode response: %w", err)
	}

	if err := resp.Body.Close(); err != nil {
		return fmt.Errorf("close response body: %w", err)
	}

	return nil
}
