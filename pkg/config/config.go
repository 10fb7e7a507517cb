package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file.
func Load(ctx context.Context, path string) (*Config, error) {
	cfg, err := Read(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Read loads a configuration file and applies environment overrides
// without validating it, so callers can layer further overrides first.
// Webhook tokens are expanded here, exactly once.
func Read(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	for i := range cfg.Webhooks {
		cfg.Webhooks[i].Token = expandEnvVar(cfg.Webhooks[i].Token)
	}

	return cfg, nil
}

// FromEnvironment returns the default configuration with environment
// overrides applied. Like Read, it does not validate.
func FromEnvironment() (*Config, error) {
	cfg := DefaultConfig()
	if err := cfg.applyEnvironmentOverrides(); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults
// for unset fields. It is safe to call more than once.
func Validate(cfg *Config) error {
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	switch cfg.Output {
	case OutputText, OutputJSON, OutputJSONLines:
	default:
		return fmt.Errorf("output: invalid format %q (must be text, json, or jsonl)", cfg.Output)
	}

	if cfg.Color == "" {
		cfg.Color = DefaultColor
	}
	switch cfg.Color {
	case ColorAuto, ColorNever:
	default:
		return fmt.Errorf("color: invalid mode %q (must be auto or never)", cfg.Color)
	}

	if cfg.MaxLineBytes == 0 {
		cfg.MaxLineBytes = DefaultMaxLineBytes
	}
	if cfg.MaxLineBytes < MinMaxLineBytes {
		return fmt.Errorf("max_line_bytes: must be at least %d, got %d", MinMaxLineBytes, cfg.MaxLineBytes)
	}

	if cfg.MaxFailures < 0 {
		return errors.New("max_failures: must not be negative")
	}

	for i, source := range cfg.Sources {
		if strings.TrimSpace(source) == "" {
			return fmt.Errorf("sources[%d]: empty path", i)
		}
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerOnFailures
	case WebhookTriggerOnFailures, WebhookTriggerAlways, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_failures, always, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands a token written as ${VAR} or $VAR.
// Any other value is returned unchanged.
func expandEnvVar(s string) string {
	switch {
	case strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}"):
		return os.Getenv(s[2 : len(s)-1])
	case strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") && len(s) > 1:
		return os.Getenv(s[1:])
	default:
		return s
	}
}
