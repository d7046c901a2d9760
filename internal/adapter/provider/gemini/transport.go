// Package gemini adapts the Google Gemini API to llm.Transport.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/heartmarshall/wortschatz/internal/llm"
)

// Config holds the connection settings for the transport.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
}

// contentGenerator is the subset of *genai.Models the transport needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Transport implements llm.Transport on the genai SDK.
type Transport struct {
	models      contentGenerator
	model       string
	temperature float32
	log         *slog.Logger
}

// New creates a Gemini API client and wraps it.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Transport, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newTransport(client.Models, cfg, logger), nil
}

func newTransport(models contentGenerator, cfg Config, logger *slog.Logger) *Transport {
	return &Transport{
		models:      models,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		log:         logger.With("adapter", "gemini"),
	}
}

// Name implements llm.Transport.
func (t *Transport) Name() string { return "gemini" }

// Complete implements llm.Transport.
func (t *Transport) Complete(ctx context.Context, req llm.Request) (string, error) {
	temp := t.temperature
	resp, err := t.models.GenerateContent(ctx, t.model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(req.Schema.Root),
	})
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}

	t.log.DebugContext(ctx, "gemini response",
		slog.String("schema", req.Schema.Name),
		slog.Int("bytes", len(text)),
	)
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}

// toGenaiSchema converts an output schema. Every object member is required;
// nullable members are marked Nullable so the model answers null for them.
func toGenaiSchema(p *llm.Property) *genai.Schema {
	if p == nil {
		return nil
	}
	s := &genai.Schema{Enum: p.Enum}
	if p.Nullable {
		nullable := true
		s.Nullable = &nullable
	}
	switch p.Type {
	case llm.TypeObject:
		s.Type = genai.TypeObject
		s.Properties = make(map[string]*genai.Schema, len(p.Properties))
		for _, f := range p.Properties {
			s.Properties[f.Name] = toGenaiSchema(f.Property)
			s.PropertyOrdering = append(s.PropertyOrdering, f.Name)
			s.Required = append(s.Required, f.Name)
		}
	case llm.TypeArray:
		s.Type = genai.TypeArray
		s.Items = toGenaiSchema(p.Items)
	default:
		s.Type = genai.TypeString
	}
	return s
}
