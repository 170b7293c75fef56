package agent

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

const (
	DefaultMaxSteps   = 0
	DefaultMaxRepairs = 2
)

type AgentConfig struct {
	Provider     string        `mapstructure:"provider"`
	APIKey       string        `mapstructure:"api_key"`
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Model        string        `mapstructure:"model"`
	SystemPrompt string        `mapstructure:"system_prompt"`
	Temperature  *float32      `mapstructure:"temperature"`
	MaxSteps     int           `mapstructure:"max_steps"`
	MaxRepairs   int           `mapstructure:"max_repairs"`
	Debug        bool          `mapstructure:"debug"`
	Weather      WeatherConfig `mapstructure:"weather"`
}

type WeatherConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		Provider:   ProviderGemini,
		MaxSteps:   DefaultMaxSteps,
		MaxRepairs: DefaultMaxRepairs,
	}
}

// envBindings lists the environment variables read for each key, in order of
// precedence. Keys without legacy names are read from AGENT_<KEY> only.
var envBindings = map[string][]string{
	"provider":         nil,
	"api_key":          {"OPENAI_API_KEY"},
	"gemini_api_key":   {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"base_url":         nil,
	"model":            nil,
	"system_prompt":    nil,
	"temperature":      nil,
	"max_steps":        nil,
	"max_repairs":      nil,
	"debug":            nil,
	"weather.api_key":  {"WEATHER_API_KEY"},
	"weather.base_url": nil,
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// envNames returns AGENT_<KEY> followed by the legacy names of key.
func envNames(key string) []string {
	names := []string{"AGENT_" + strings.ToUpper(envKeyReplacer.Replace(key))}
	return append(names, envBindings[key]...)
}

// LoadAgentConfig loads agent config from a directory containing agent.yaml.
// A .env file in the same directory is loaded into the environment first,
// without overriding variables that are already set.
func LoadAgentConfig(path string) (*AgentConfig, error) {
	if err := gotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load .env")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("agent")
	v.SetConfigType("yaml")

	for key := range envBindings {
		if err := v.BindEnv(append([]string{key}, envNames(key)...)...); err != nil {
			return nil, errors.Wrapf(err, "bind env %s", key)
		}
	}

	cfg := DefaultAgentConfig()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read agent.yaml")
		}
		logger.KV(xlog.INFO, "status", "config_not_found", "path", path, "reason", "relying on env vars")
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate normalizes the provider and fills model defaults.
func (c *AgentConfig) Validate() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case "":
		c.Provider = ProviderGemini
	case ProviderGemini, ProviderOpenAI:
	default:
		return errors.Errorf("unsupported provider %q", c.Provider)
	}
	if c.Model == "" {
		if c.Provider == ProviderOpenAI {
			c.Model = DefaultOpenAIModel
		} else {
			c.Model = DefaultGeminiModel
		}
	}
	if c.MaxSteps < 0 {
		c.MaxSteps = 0
	}
	if c.MaxRepairs < 0 {
		c.MaxRepairs = 0
	}
	if c.ProviderAPIKey() == "" {
		return errors.Wrapf(ErrMissingAPIKey, "set GEMINI_API_KEY, AGENT_API_KEY or api_key in agent.yaml for provider %s", c.Provider)
	}
	return nil
}

// ProviderAPIKey returns the key for the selected provider.
func (c *AgentConfig) ProviderAPIKey() string {
	if c.Provider == ProviderOpenAI {
		return c.APIKey
	}
	if c.GeminiAPIKey != "" {
		return c.GeminiAPIKey
	}
	return c.APIKey
}
