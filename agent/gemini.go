package agent

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"google.golang.org/genai"
)

const (
	DefaultGeminiModel = "gemini-2.5-flash"

	responseMIMETypeJSON = "application/json"
	geminiRoleUser       = "user"
)

// GeminiCompleter calls the Gemini API through google.golang.org/genai.
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature *float32
}

var _ Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter creates a Gemini API client.
func NewGeminiCompleter(ctx context.Context, opts CompleterOptions) (*GeminiCompleter, error) {
	if opts.APIKey == "" {
		return nil, errors.Wrap(ErrMissingAPIKey, "gemini")
	}
	cfg := &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions.BaseURL = opts.BaseURL
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}
	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiCompleter{
		client:      client,
		model:       model,
		temperature: opts.Temperature,
	}, nil
}

func (g *GeminiCompleter) Model() string {
	return g.model
}

// Complete implements Completer.
func (g *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: responseMIMETypeJSON,
		Temperature:      g.temperature,
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		}
	}

	history := make([]*genai.Content, 0, len(req.Entries))
	for _, e := range req.Entries {
		history = append(history, &genai.Content{
			Role:  geminiRole(e.Role),
			Parts: []*genai.Part{{Text: e.Content}},
		})
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, history, config)
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content")
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var buf strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		buf.WriteString(part.Text)
	}
	if buf.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return buf.String(), nil
}

func geminiRole(r Role) string {
	switch r {
	case RoleUser:
		return geminiRoleUser
	}
	return string(r)
}
