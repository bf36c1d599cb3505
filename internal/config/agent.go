package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// AgentEnv maps agent config fields to environment variable names so the
// evaluation and vision agents can carry independent overrides.
type AgentEnv struct {
	ProviderName string
	BaseURL      string
	Token        string
	Deployment   string
	APIVersion   string
	AuthType     string
	ModelName    string
}

var agentEnv = AgentEnv{
	ProviderName: "BANDCOACH_AGENT_PROVIDER_NAME",
	BaseURL:      "BANDCOACH_AGENT_BASE_URL",
	Token:        "BANDCOACH_AGENT_TOKEN",
	Deployment:   "BANDCOACH_AGENT_DEPLOYMENT",
	APIVersion:   "BANDCOACH_AGENT_API_VERSION",
	AuthType:     "BANDCOACH_AGENT_AUTH_TYPE",
	ModelName:    "BANDCOACH_AGENT_MODEL_NAME",
}

var visionEnv = AgentEnv{
	ProviderName: "BANDCOACH_VISION_PROVIDER_NAME",
	BaseURL:      "BANDCOACH_VISION_BASE_URL",
	Token:        "BANDCOACH_VISION_TOKEN",
	Deployment:   "BANDCOACH_VISION_DEPLOYMENT",
	APIVersion:   "BANDCOACH_VISION_API_VERSION",
	AuthType:     "BANDCOACH_VISION_AUTH_TYPE",
	ModelName:    "BANDCOACH_VISION_MODEL_NAME",
}

// AgentSettings is the TOML-facing agent section. go-agents config structs
// carry no TOML tags, so the section is declared here and converted to an
// AgentConfig during finalize.
type AgentSettings struct {
	Name     string           `toml:"name"`
	Provider ProviderSettings `toml:"provider"`
	Model    ModelSettings    `toml:"model"`
}

// ProviderSettings holds provider connection settings for an agent.
type ProviderSettings struct {
	Name    string            `toml:"name"`
	BaseURL string            `toml:"base_url"`
	Options map[string]string `toml:"options"`
}

// ModelSettings holds model selection settings for an agent.
type ModelSettings struct {
	Name string `toml:"name"`
}

// Merge overwrites non-zero fields from overlay.
func (s *AgentSettings) Merge(overlay *AgentSettings) {
	if overlay.Name != "" {
		s.Name = overlay.Name
	}
	if overlay.Provider.Name != "" {
		s.Provider.Name = overlay.Provider.Name
	}
	if overlay.Provider.BaseURL != "" {
		s.Provider.BaseURL = overlay.Provider.BaseURL
	}
	for k, v := range overlay.Provider.Options {
		if s.Provider.Options == nil {
			s.Provider.Options = make(map[string]string)
		}
		s.Provider.Options[k] = v
	}
	if overlay.Model.Name != "" {
		s.Model.Name = overlay.Model.Name
	}
}

func (s *AgentSettings) agentConfig() gaconfig.AgentConfig {
	cfg := gaconfig.AgentConfig{Name: s.Name}

	if s.Provider.Name != "" || s.Provider.BaseURL != "" || len(s.Provider.Options) > 0 {
		opts := make(map[string]any, len(s.Provider.Options))
		for k, v := range s.Provider.Options {
			opts[k] = v
		}
		cfg.Provider = &gaconfig.ProviderConfig{
			Name:    s.Provider.Name,
			BaseURL: s.Provider.BaseURL,
			Options: opts,
		}
	}

	if s.Model.Name != "" {
		cfg.Model = &gaconfig.ModelConfig{Name: s.Model.Name}
	}

	return cfg
}

// FinalizeAgent applies the three-phase finalize pattern to a go-agents
// AgentConfig: defaults from go-agents DefaultAgentConfig, environment
// variable overrides, and validation.
func FinalizeAgent(c *gaconfig.AgentConfig, env AgentEnv) error {
	loadAgentDefaults(c)
	loadAgentEnv(c, env)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig, env AgentEnv) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(env.ProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(env.ModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(env.Token, "token")
	setOption(env.Deployment, "deployment")
	setOption(env.APIVersion, "api_version")
	setOption(env.AuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
