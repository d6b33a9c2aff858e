package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the deepfake model's inference server. The model itself
// lives outside this repository; this is only its wire contract.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Score is the model's verdict for one frame.
type Score struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type classifyRequest struct {
	Model     string    `json:"model"`
	Embedding []float32 `json:"embedding"`
}

// Embed sends one JPEG frame and returns its embedding vector.
func (c *Client) Embed(ctx context.Context, frame []byte) ([]float32, error) {
	url := fmt.Sprintf("%s/v1/embed?model=%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(frame))
	if err != nil {
		return nil, fmt.Errorf("failed to create embed request: %w", err)
	}
	req.Header.Set("Content-Type", "image/jpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference server returned %d: %s", resp.StatusCode, body)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode embed response: %w", err)
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("inference server returned empty embedding")
	}
	return out.Embedding, nil
}

// Classify scores one embedding.
func (c *Client) Classify(ctx context.Context, embedding []float32) (*Score, error) {
	payload, err := json.Marshal(classifyRequest{Model: c.model, Embedding: embedding})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	url := c.baseURL + "/v1/classify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("inference server returned %d: %s", resp.StatusCode, body)
	}

	var score Score
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}
	return &score, nil
}
