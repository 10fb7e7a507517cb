package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ccollicutt/logsift/pkg/parser"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
sources:
  - /var/log/app/**/*.log
output: json
levels: [error, warn, fatal]
strict: true
merge: true
max_line_bytes: 65536
`
	path := writeTempFile(t, "config.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Sources) != 1 || cfg.Sources[0] != "/var/log/app/**/*.log" {
		t.Errorf("Sources = %v", cfg.Sources)
	}
	if cfg.Output != OutputJSON {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	wantLevels := []parser.Severity{parser.SeverityError, parser.SeverityWarning, parser.SeverityCritical}
	if len(cfg.Levels) != len(wantLevels) {
		t.Fatalf("Levels = %v, want %v", cfg.Levels, wantLevels)
	}
	for i := range wantLevels {
		if cfg.Levels[i] != wantLevels[i] {
			t.Errorf("Levels[%d] = %v, want %v", i, cfg.Levels[i], wantLevels[i])
		}
	}
	if !cfg.Strict || !cfg.Merge {
		t.Errorf("Strict = %v, Merge = %v, want both true", cfg.Strict, cfg.Merge)
	}
	if cfg.MaxLineBytes != 65536 {
		t.Errorf("MaxLineBytes = %d, want 65536", cfg.MaxLineBytes)
	}
	if cfg.Color != ColorAuto {
		t.Errorf("Color = %q, want default auto", cfg.Color)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeTempFile(t, "empty.yaml", "# nothing set\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", cfg.Output, DefaultOutput)
	}
	if cfg.MaxLineBytes != DefaultMaxLineBytes {
		t.Errorf("MaxLineBytes = %d, want %d", cfg.MaxLineBytes, DefaultMaxLineBytes)
	}
	if len(cfg.Sources) != 0 || len(cfg.Levels) != 0 {
		t.Errorf("Sources = %v, Levels = %v, want empty", cfg.Sources, cfg.Levels)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(context.Background(), "/nonexistent/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTempFile(t, "invalid.yaml", `invalid: yaml: content: [`)
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for invalid YAML")
	}
}

func TestLoad_UnknownLevel(t *testing.T) {
	path := writeTempFile(t, "levels.yaml", "levels: [error, verbose]\n")
	_, err := Load(context.Background(), path)
	if err == nil {
		t.Error("Load() expected error for unrecognized level")
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvSources, " a.log , ,b/*.log")
	t.Setenv(EnvOutput, "jsonl")
	t.Setenv(EnvStrict, "true")

	path := writeTempFile(t, "config.yaml", "sources: [ignored.log]\noutput: text\n")
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Sources) != 2 || cfg.Sources[0] != "a.log" || cfg.Sources[1] != "b/*.log" {
		t.Errorf("Sources = %v, want [a.log b/*.log]", cfg.Sources)
	}
	if cfg.Output != OutputJSONLines {
		t.Errorf("Output = %q, want jsonl", cfg.Output)
	}
	if !cfg.Strict {
		t.Error("Strict = false, want true from environment")
	}
}

func TestLoad_InvalidStrictEnv(t *testing.T) {
	t.Setenv(EnvStrict, "maybe")
	path := writeTempFile(t, "config.yaml", "output: text\n")
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for invalid LOGSIFT_STRICT")
	}
}

func TestFromEnvironment(t *testing.T) {
	t.Setenv(EnvSources, "x.log")
	t.Setenv(EnvOutput, "json")

	cfg, err := FromEnvironment()
	if err != nil {
		t.Fatalf("FromEnvironment() error = %v", err)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0] != "x.log" {
		t.Errorf("Sources = %v, want [x.log]", cfg.Sources)
	}
	if cfg.Output != OutputJSON {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.MaxLineBytes != DefaultMaxLineBytes {
		t.Errorf("MaxLineBytes = %d, want default", cfg.MaxLineBytes)
	}
}

func TestFromEnvironment_DefersValidation(t *testing.T) {
	t.Setenv(EnvOutput, "yaml")

	cfg, err := FromEnvironment()
	if err != nil {
		t.Fatalf("FromEnvironment() error = %v", err)
	}
	if err := Validate(cfg); err == nil {
		t.Error("Validate() expected error for invalid output")
	}

	// A later override can still fix the value before validation
	cfg.Output = OutputJSON
	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() after override error = %v", err)
	}
}

func TestRead_DefersValidation(t *testing.T) {
	t.Setenv(EnvOutput, "xml")
	path := writeTempFile(t, "config.yaml", "strict: true\n")

	cfg, err := Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if cfg.Output != "xml" || !cfg.Strict {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := Load(context.Background(), path); err == nil {
		t.Error("Load() expected error for invalid output")
	}
}

func TestLoad_TokenExpandedOnce(t *testing.T) {
	t.Setenv("OUTER_TOKEN", "$INNER_TOKEN")
	t.Setenv("INNER_TOKEN", "leaked")
	path := writeTempFile(t, "config.yaml", `webhooks:
  - url: "https://example.com/hook"
    token: "${OUTER_TOKEN}"
`)

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := Validate(cfg); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if got := cfg.Webhooks[0].Token; got != "$INNER_TOKEN" {
			t.Errorf("Token after %d extra Validate = %q, want %q", i+1, got, "$INNER_TOKEN")
		}
	}
}

func TestValidate_LeavesTokenAlone(t *testing.T) {
	t.Setenv("SOME_TOKEN", "expanded")
	cfg := &Config{Webhooks: []WebhookConfig{{URL: "https://example.com", Token: "${SOME_TOKEN}"}}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Webhooks[0].Token != "${SOME_TOKEN}" {
		t.Errorf("Token = %q, Validate must not expand it", cfg.Webhooks[0].Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero value gets defaults", Config{}, false},
		{"jsonl output", Config{Output: OutputJSONLines}, false},
		{"unknown output", Config{Output: "xml"}, true},
		{"never color", Config{Color: ColorNever}, false},
		{"unknown color", Config{Color: "sometimes"}, true},
		{"line limit too small", Config{MaxLineBytes: 100}, true},
		{"negative max failures", Config{MaxFailures: -1}, true},
		{"blank source", Config{Sources: []string{"a.log", "  "}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := Validate(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := &Config{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Output != OutputText || cfg.Color != ColorAuto || cfg.MaxLineBytes != DefaultMaxLineBytes {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestValidate_Webhooks(t *testing.T) {
	tests := []struct {
		name    string
		webhook WebhookConfig
		wantErr bool
	}{
		{"valid https", WebhookConfig{URL: "https://hooks.example.com/x"}, false},
		{"valid http", WebhookConfig{URL: "http://localhost:8080/hook"}, false},
		{"missing url", WebhookConfig{Name: "x"}, true},
		{"bad scheme", WebhookConfig{URL: "ftp://example.com"}, true},
		{"no host", WebhookConfig{URL: "https://"}, true},
		{"valid trigger", WebhookConfig{URL: "https://example.com", Trigger: WebhookTriggerAlways}, false},
		{"invalid trigger", WebhookConfig{URL: "https://example.com", Trigger: "sometimes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Webhooks: []WebhookConfig{tt.webhook}}
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_WebhookDefaults(t *testing.T) {
	cfg := &Config{Webhooks: []WebhookConfig{{URL: "https://example.com/hook"}}}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	wh := cfg.Webhooks[0]
	if wh.Trigger != WebhookTriggerOnFailures {
		t.Errorf("Trigger = %q, want on_failures", wh.Trigger)
	}
	if wh.Timeout != DefaultWebhookTimeout {
		t.Errorf("Timeout = %v, want %v", wh.Timeout, DefaultWebhookTimeout)
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-value")

	tests := []struct {
		input string
		want  string
	}{
		{"${TEST_WEBHOOK_TOKEN}", "secret-value"},
		{"$TEST_WEBHOOK_TOKEN", "secret-value"},
		{"plain-value", "plain-value"},
		{"$", "$"},
		{"", ""},
		{"${NONEXISTENT_VAR}", ""},
	}

	for _, tt := range tests {
		got := expandEnvVar(tt.input)
		if got != tt.want {
			t.Errorf("expandEnvVar(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoad_WithWebhooks(t *testing.T) {
	t.Setenv("HOOK_TOKEN", "from-env")
	content := `
webhooks:
  - name: test-webhook
    url: "https://example.com/webhook"
    token: "${HOOK_TOKEN}"
    trigger: on_failures
    timeout: 30s
  - url: "https://backup.example.com/webhook"
    trigger: always
`
	path := writeTempFile(t, "config-with-webhooks.yaml", content)
	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Webhooks) != 2 {
		t.Fatalf("Webhooks = %d, want 2", len(cfg.Webhooks))
	}
	if cfg.Webhooks[0].Token != "from-env" {
		t.Errorf("Webhook[0].Token = %q, want from-env", cfg.Webhooks[0].Token)
	}
	if cfg.Webhooks[0].Timeout != 30*time.Second {
		t.Errorf("Webhook[0].Timeout = %v, want 30s", cfg.Webhooks[0].Timeout)
	}
	if cfg.Webhooks[1].Trigger != WebhookTriggerAlways {
		t.Errorf("Webhook[1].Trigger = %v, want %v", cfg.Webhooks[1].Trigger, WebhookTriggerAlways)
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}
