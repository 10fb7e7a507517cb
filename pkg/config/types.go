// Package config provides configuration loading and validation for logsift.
package config

import (
	"time"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Sources are log file paths or glob patterns ("**" allowed).
	// Optional: files named on the command line or stdin can be used instead.
	Sources []string `yaml:"sources,omitempty"`

	// Output is the report format: text, json, or jsonl.
	Output OutputFormat `yaml:"output,omitempty"`

	// Levels restricts reported entries to these severities. Empty means all.
	Levels []parser.Severity `yaml:"levels,omitempty"`

	// Strict makes any malformed line a failing result (exit code 1).
	Strict bool `yaml:"strict,omitempty"`

	// Merge orders entries across sources by timestamp instead of file order.
	Merge bool `yaml:"merge,omitempty"`

	// MaxFailures stops collection after this many malformed lines. 0 is unlimited.
	MaxFailures int `yaml:"max_failures,omitempty"`

	// MaxLineBytes is the longest line that will be read.
	MaxLineBytes int `yaml:"max_line_bytes,omitempty"`

	// Color controls colored text output: auto or never.
	Color ColorMode `yaml:"color,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// OutputFormat selects a report formatter.
type OutputFormat string

const (
	OutputText      OutputFormat = "text"
	OutputJSON      OutputFormat = "json"
	OutputJSONLines OutputFormat = "jsonl"
)

// ColorMode controls terminal colors in text output.
type ColorMode string

const (
	// ColorAuto colors output only when writing to a terminal.
	ColorAuto ColorMode = "auto"
	// ColorNever disables colors.
	ColorNever ColorMode = "never"
)

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnFailures fires only when malformed lines were found (default).
	WebhookTriggerOnFailures WebhookTrigger = "on_failures"
	// WebhookTriggerAlways fires after every run.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending parse reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	// ${VAR} and $VAR are expanded from the environment.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_failures" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
