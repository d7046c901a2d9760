// Package claude adapts the Claude Messages API to llm.Transport. The API
// has no native schema mode here, so the schema is embedded in the prompt
// and the JSON object is cut out of the reply.
package claude

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/heartmarshall/wortschatz/internal/llm"
)

const maxTokens = 2048

// Config holds the connection settings for the transport.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
}

type messageCreator interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Transport implements llm.Transport on anthropic-sdk-go.
type Transport struct {
	messages    messageCreator
	model       string
	temperature float64
	log         *slog.Logger
}

// New creates a Transport with its own API client.
func New(cfg Config, logger *slog.Logger) *Transport {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return newTransport(&client.Messages, cfg, logger)
}

func newTransport(messages messageCreator, cfg Config, logger *slog.Logger) *Transport {
	return &Transport{
		messages:    messages,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		log:         logger.With("adapter", "anthropic"),
	}
}

// Name implements llm.Transport.
func (t *Transport) Name() string { return "anthropic" }

// Complete implements llm.Transport.
func (t *Transport) Complete(ctx context.Context, req llm.Request) (string, error) {
	prompt, err := withSchema(req)
	if err != nil {
		return "", err
	}

	msg, err := t.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(t.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(t.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", llm.ErrEmptyResponse
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text, err := extractJSON(sb.String())
	if err != nil {
		return "", err
	}

	t.log.DebugContext(ctx, "anthropic response",
		slog.String("schema", req.Schema.Name),
		slog.Int("bytes", len(text)),
	)
	return text, nil
}

func withSchema(req llm.Request) (string, error) {
	schema, err := json.MarshalIndent(req.Schema.JSON(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("anthropic: encode schema: %w", err)
	}
	return fmt.Sprintf("%s\n\nOutput ONLY a JSON object matching this JSON schema (%s), no markdown:\n%s",
		req.Prompt, req.Schema.Name, schema), nil
}

// extractJSON returns the text between the first '{' and the last '}'.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("%w: no JSON object in reply", llm.ErrEmptyResponse)
	}
	return s[start : end+1], nil
}
