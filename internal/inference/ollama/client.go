// Package ollama implements port.InferenceClient against a local Ollama
// server's generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"wohnwert/internal/config"
	"wohnwert/internal/port"
)

// Client talks to one Ollama instance.
type Client struct {
	baseURL     string
	model       string
	client      *http.Client
	probeClient *http.Client
}

// New creates a client from the assisted-extraction config.
func New(cfg *config.AssistedConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		client:      &http.Client{Timeout: cfg.InferenceTimeout()},
		probeClient: &http.Client{Timeout: cfg.AvailabilityTimeout()},
	}
}

// Available checks that the server answers its model listing endpoint.
func (c *Client) Available(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("creating availability request: %w", err)
	}
	resp, err := c.probeClient.Do(req)
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Format  string          `json:"format,omitempty"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate runs one non-streaming completion. Temperature is pinned low so
// repeated runs over the same listing stay close to deterministic.
func (c *Client) Generate(ctx context.Context, input port.GenerateInput) (*port.GenerateOutput, error) {
	reqBody := generateRequest{
		Model:  c.model,
		Prompt: input.Prompt,
		Stream: false,
		Format: "json",
		Options: generateOptions{
			Temperature: 0.1,
			NumPredict:  2000,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling inference service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &port.GenerateOutput{
		Text:      genResp.Response,
		ModelUsed: c.model,
	}, nil
}
