package agent

import (
	"context"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

//go:generate mockgen -source=llm.go -destination=../mocks/mockagent/completer_mock.gen.go -package mockagent

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// CompletionRequest is one call to the LLM: the full transcript plus the
// system instruction. The reply is expected to be a single JSON object.
type CompletionRequest struct {
	SystemInstruction string
	Entries           []Entry
}

// Completer sends a transcript to an LLM and returns the reply text.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Model returns the model name used for completions.
	Model() string
}

// CompleterOptions configures a Completer backend.
type CompleterOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature *float32
	HTTPClient  *http.Client
}

// NewCompleter creates the Completer for cfg.Provider.
func NewCompleter(ctx context.Context, cfg *AgentConfig) (Completer, error) {
	opts := CompleterOptions{
		APIKey:      cfg.ProviderAPIKey(),
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	}
	switch strings.ToLower(cfg.Provider) {
	case ProviderGemini, "":
		return NewGeminiCompleter(ctx, opts)
	case ProviderOpenAI:
		return NewOpenAICompleter(opts)
	default:
		return nil, errors.Errorf("unsupported provider %q", cfg.Provider)
	}
}
