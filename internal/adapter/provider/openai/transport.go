// Package openai talks to the OpenAI Responses API with strict JSON schema
// output.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/heartmarshall/wortschatz/internal/llm"
)

const defaultBaseURL = "https://api.openai.com"

// Config holds the connection settings for the transport.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Transport implements llm.Transport over net/http.
type Transport struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	httpClient  *http.Client
	log         *slog.Logger
}

// New creates a Transport. An empty BaseURL selects the public API.
func New(cfg Config, logger *slog.Logger) *Transport {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Transport{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: timeout},
		log:         logger.With("adapter", "openai"),
	}
}

// Name implements llm.Transport.
func (t *Transport) Name() string { return "openai" }

// HTTPError is a non-2xx answer from the API.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model       string         `json:"model"`
	Input       []inputMessage `json:"input"`
	Text        textOptions    `json:"text"`
	Temperature *float64       `json:"temperature,omitempty"`
}

type textOptions struct {
	Format map[string]any `json:"format"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type    string `json:"type"`
			Text    string `json:"text,omitempty"`
			Refusal string `json:"refusal,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
}

// Complete implements llm.Transport.
func (t *Transport) Complete(ctx context.Context, req llm.Request) (string, error) {
	temp := t.temperature
	body := responsesRequest{
		Model:       t.model,
		Input:       []inputMessage{{Role: "user", Content: req.Prompt}},
		Temperature: &temp,
		Text: textOptions{Format: map[string]any{
			"type":   "json_schema",
			"name":   req.Schema.Name,
			"schema": req.Schema.JSON(),
			"strict": true,
		}},
	}

	raw, err := t.post(ctx, "/v1/responses", body)
	if err != nil {
		return "", err
	}

	var resp responsesResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}

	text, refusal := outputText(resp)
	if refusal != "" {
		return "", fmt.Errorf("%w: %s", llm.ErrRefused, refusal)
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}

	t.log.DebugContext(ctx, "openai response",
		slog.String("schema", req.Schema.Name),
		slog.Int("bytes", len(text)),
	)
	return text, nil
}

func (t *Transport) post(ctx context.Context, path string, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("openai: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func outputText(resp responsesResponse) (text, refusal string) {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			switch c.Type {
			case "output_text":
				out.WriteString(c.Text)
			case "refusal":
				refusal = c.Refusal
			}
		}
	}
	return out.String(), refusal
}
