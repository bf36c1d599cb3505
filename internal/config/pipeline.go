package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"bandcoach/pkg/retry"
)

const (
	EnvPipelineMaxRetries  = "BANDCOACH_PIPELINE_MAX_RETRIES"
	EnvPipelineBackoffBase = "BANDCOACH_PIPELINE_BACKOFF_BASE"
)

// PipelineConfig holds evaluation pipeline retry parameters.
type PipelineConfig struct {
	MaxRetries  int    `toml:"max_retries"`
	BackoffBase string `toml:"backoff_base"`
}

// RetryPolicy returns the retry policy derived from this config.
func (c *PipelineConfig) RetryPolicy() retry.Policy {
	d, _ := time.ParseDuration(c.BackoffBase)
	return retry.Policy{
		MaxAttempts: c.MaxRetries,
		BaseDelay:   d,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *PipelineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *PipelineConfig) Merge(overlay *PipelineConfig) {
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.BackoffBase != "" {
		c.BackoffBase = overlay.BackoffBase
	}
}

func (c *PipelineConfig) loadDefaults() {
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BackoffBase == "" {
		c.BackoffBase = "1s"
	}
}

func (c *PipelineConfig) loadEnv() {
	if v := os.Getenv(EnvPipelineMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv(EnvPipelineBackoffBase); v != "" {
		c.BackoffBase = v
	}
}

func (c *PipelineConfig) validate() error {
	if c.MaxRetries < 1 {
		return fmt.Errorf("invalid max_retries: %d", c.MaxRetries)
	}
	if _, err := time.ParseDuration(c.BackoffBase); err != nil {
		return fmt.Errorf("invalid backoff_base: %w", err)
	}
	return nil
}
