package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/pkg/config"
	"github.com/ccollicutt/logsift/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logsift configuration file without reading any logs.

Checks:
  - YAML syntax
  - Output format and color mode
  - Level names
  - Webhook URLs and triggers
  - Source file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := commandContext(cmd.Context())
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Output:   %s\n", cfg.Output)
	fmt.Fprintf(w, "  Levels:   %s\n", levelList(cfg.Levels))
	fmt.Fprintf(w, "  Strict:   %t\n", cfg.Strict)
	fmt.Fprintf(w, "  Merge:    %t\n", cfg.Merge)
	fmt.Fprintf(w, "  Webhooks: %d\n", len(cfg.Webhooks))

	if len(cfg.Sources) == 0 {
		fmt.Fprintf(w, "\nNo sources configured; parse will read its arguments or standard input\n")
		return nil
	}

	// Missing sources are warnings only; they may exist by the time parse runs
	files, err := parser.ExpandGlobs(cfg.Sources)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding source patterns: %v\n", err)
		return nil
	}

	fmt.Fprintf(w, "\nSource files: %d\n", len(files))
	for _, f := range files {
		if !fileExists(f) {
			fmt.Fprintf(w, "  - %s (not found)\n", f)
			continue
		}
		fmt.Fprintf(w, "  - %s\n", f)
	}

	return nil
}

func levelList(levels []parser.Severity) string {
	if len(levels) == 0 {
		return "all"
	}
	names := make([]string, len(levels))
	for i, l := range levels {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
