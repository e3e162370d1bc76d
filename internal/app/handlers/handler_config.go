package handlers

import (
	"os"
)

// HandlerConfig controls how much error detail handlers expose
type HandlerConfig struct {
	// Include upstream error text in 5xx responses
	EnableDebugErrors bool `json:"enable_debug_errors"`

	Environment string `json:"environment"`
}

// NewHandlerConfig reads ENVIRONMENT and ENABLE_DEBUG_ERRORS. Production never
// exposes error details regardless of the flag.
func NewHandlerConfig() *HandlerConfig {
	config := &HandlerConfig{
		EnableDebugErrors: false,
		Environment:       "production",
	}

	config.loadFromEnv()
	config.applyEnvironmentDefaults()

	return config
}

func (c *HandlerConfig) loadFromEnv() {
	if val := os.Getenv("ENABLE_DEBUG_ERRORS"); val != "" {
		c.EnableDebugErrors = val == "true"
	}

	if val := os.Getenv("ENVIRONMENT"); val != "" {
		c.Environment = val
	}
}

func (c *HandlerConfig) applyEnvironmentDefaults() {
	switch c.Environment {
	case "development", "dev", "test", "testing":
		c.EnableDebugErrors = true
	case "production", "prod", "staging", "stage":
		c.EnableDebugErrors = false
	}
}
