package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// Default values for configuration.
const (
	DefaultOutput         = OutputText
	DefaultColor          = ColorAuto
	DefaultMaxLineBytes   = parser.DefaultMaxLineBytes
	MinMaxLineBytes       = 4 * 1024
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvSources = "LOGSIFT_SOURCES"
	EnvOutput  = "LOGSIFT_OUTPUT"
	EnvStrict  = "LOGSIFT_STRICT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sources:      []string{},
		Output:       DefaultOutput,
		MaxLineBytes: DefaultMaxLineBytes,
		Color:        DefaultColor,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if sources := os.Getenv(EnvSources); sources != "" {
		c.Sources = c.Sources[:0]
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Sources = append(c.Sources, s)
			}
		}
	}

	if output := os.Getenv(EnvOutput); output != "" {
		c.Output = OutputFormat(output)
	}

	if strict := os.Getenv(EnvStrict); strict != "" {
		v, err := strconv.ParseBool(strict)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvStrict, err)
		}
		c.Strict = v
	}

	return nil
}
