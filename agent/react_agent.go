package agent

import (
	"context"

	"github.com/myproject/weather-agent/agent/tools"
	"github.com/myproject/weather-agent/agent/tools/buildin"
)

// NewReActAgent creates the weather agent described by cfg: the configured
// LLM backend and a registry holding getWeatherByCityName.
func NewReActAgent(ctx context.Context, cfg *AgentConfig) (*Agent, error) {
	completer, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewReActAgentWithCompleter(completer, cfg)
}

// NewReActAgentWithCompleter is NewReActAgent with a caller supplied backend.
func NewReActAgentWithCompleter(completer Completer, cfg *AgentConfig) (*Agent, error) {
	registry, err := tools.NewRegistry(
		buildin.NewGetWeatherTool(
			buildin.WithAPIKey(cfg.Weather.APIKey),
			buildin.WithBaseURL(cfg.Weather.BaseURL),
		),
	)
	if err != nil {
		return nil, err
	}

	a := NewAgent(completer, registry)
	a.MaxSteps = cfg.MaxSteps
	a.MaxRepairs = cfg.MaxRepairs
	if cfg.SystemPrompt != "" {
		a.SetSystemPrompt(cfg.SystemPrompt)
	}
	return a, nil
}
