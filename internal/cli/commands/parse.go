package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/pkg/collector"
	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/output"
	"github.com/ccollicutt/logsift/pkg/parser"
	"github.com/ccollicutt/logsift/pkg/webhook"
)

// stdinInput selects standard input as the only source.
const stdinInput = "-"

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	ConfigFile  string
	Output      string
	Levels      []string
	Strict      bool
	Merge       bool
	MaxFailures int
	Verbose     bool
	Quiet       bool
	Color       string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|glob ...]",
		Short: "Parse log files into structured entries",
		Long: `Parse log lines of the form "<timestamp> [<level>] <message>".

Inputs are taken from the arguments, then from the config file's sources,
and finally from standard input. Use "-" to read standard input explicitly.
Glob patterns may use "**" to match nested directories.

Malformed lines are reported and skipped; they never stop the run.

Exit codes:
  0 - Input parsed (malformed lines allowed unless --strict)
  1 - Malformed lines found with --strict
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Configuration file (YAML)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", string(config.DefaultOutput), "Output format (text|json|jsonl)")
	cmd.Flags().StringSliceVarP(&opts.Levels, "level", "l", nil, "Only report these levels (can be repeated)")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit 1 if any line is malformed")
	cmd.Flags().BoolVar(&opts.Merge, "merge", false, "Merge entries from all files by timestamp")
	cmd.Flags().IntVar(&opts.MaxFailures, "max-failures", 0, "Stop after this many malformed lines (0 = unlimited)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show source locations and malformed lines")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no entries")
	cmd.Flags().StringVar(&opts.Color, "color", string(config.DefaultColor), "Colorize text output (auto|never)")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnFailures), "When to fire webhook (on_failures|always|never)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := commandContext(cmd.Context())
	logger := loggerFrom(ctx)

	cfg, err := loadConfig(ctx, opts.ConfigFile)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		inputs = cfg.Sources
	}
	if len(inputs) == 0 {
		inputs = []string{stdinInput}
	}

	source, err := openSource(inputs, cmd.InOrStdin(), cfg, logger)
	if err != nil {
		return err
	}
	defer source.Close()

	c := collector.New(
		collector.WithLevelFilter(cfg.Levels),
		collector.WithLogger(logger),
		collector.WithMaxFailures(cfg.MaxFailures),
	)

	result, err := c.Collect(ctx, source)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	report := output.NewReport(result, opts.ConfigFile)

	formatter, err := output.NewFormatter(string(cfg.Output), output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
		NoColor: cfg.Color == config.ColorNever,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the run)
	sendWebhooks(ctx, logger, cfg, opts, report)

	if cfg.Strict && report.HasFailures() {
		ExitCode = 1
	}

	return nil
}

// loadConfig reads the config file, or the environment alone when no file
// is given. Validation is left to applyFlags so flags can override first.
func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		cfg, err = config.FromEnvironment()
	} else {
		cfg, err = config.Read(ctx, path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides config values with flags the user set explicitly,
// then validates the result.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *ParseOptions) error {
	flags := cmd.Flags()

	if flags.Changed("output") {
		cfg.Output = config.OutputFormat(opts.Output)
	}
	if flags.Changed("color") {
		cfg.Color = config.ColorMode(opts.Color)
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.Strict
	}
	if flags.Changed("merge") {
		cfg.Merge = opts.Merge
	}
	if flags.Changed("max-failures") {
		cfg.MaxFailures = opts.MaxFailures
	}

	if len(opts.Levels) > 0 {
		levels, err := parseLevels(opts.Levels)
		if err != nil {
			return err
		}
		cfg.Levels = levels
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func parseLevels(names []string) ([]parser.Severity, error) {
	levels := make([]parser.Severity, 0, len(names))
	for _, name := range names {
		var s parser.Severity
		if err := s.UnmarshalText([]byte(name)); err != nil {
			return nil, fmt.Errorf("--level: %w", err)
		}
		levels = append(levels, s)
	}
	return levels, nil
}

// openSource builds the line source for the given inputs. Files are read
// in order unless merging is enabled and more than one file matched.
func openSource(inputs []string, stdin io.Reader, cfg *config.Config, logger *slog.Logger) (parser.LineSource, error) {
	srcOpts := []parser.SourceOption{
		parser.WithMaxLineBytes(cfg.MaxLineBytes),
		parser.WithSourceLogger(logger),
	}

	if slices.Contains(inputs, stdinInput) {
		if len(inputs) > 1 {
			return nil, errors.New("standard input (-) cannot be combined with other inputs")
		}
		return parser.NewReaderSource("<stdin>", stdin, srcOpts...), nil
	}

	files, err := parser.ExpandGlobs(inputs)
	if err != nil {
		return nil, fmt.Errorf("expanding sources: %w", err)
	}
	logger.Debug("expanded sources", "patterns", len(inputs), "files", len(files))

	if !cfg.Merge || len(files) < 2 {
		return parser.NewFileSource(files, srcOpts...), nil
	}

	sources := make([]parser.LineSource, len(files))
	for i, file := range files {
		sources[i] = parser.NewFileSource([]string{file}, srcOpts...)
	}
	return parser.NewMergedSource(sources...), nil
}

// sendWebhooks sends the report to all configured webhooks.
func sendWebhooks(ctx context.Context, logger *slog.Logger, cfg *config.Config, opts *ParseOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, report.HasFailures()) {
			continue
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			logger.Info("webhook sent", "webhook", name, "status", resp.StatusCode, "duration", resp.Duration)
		} else {
			logger.Warn("webhook failed", "webhook", name, "error", resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *ParseOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnFailures
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook reports whether a webhook with the given trigger fires.
func shouldFireWebhook(trigger config.WebhookTrigger, hasFailures bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasFailures
	}
}
