// Package cli provides the command-line interface for logsift.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/internal/cli/commands"
	"github.com/ccollicutt/logsift/internal/logging"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logCfg logging.Config

	rootCmd := &cobra.Command{
		Use:   "logsift",
		Short: "Parse and classify timestamped log lines",
		Long: `logsift parses log lines of the form

  <timestamp> [<level>] <message>

into structured entries, classifies each level keyword into a severity,
and reports malformed lines without stopping.

Diagnostics are written to stderr; reports are written to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(logCfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cmd.SetContext(commands.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logCfg.Level, "log-level", "warn", "Diagnostic log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logCfg.Format, "log-format", "text", "Diagnostic log format (text|json)")

	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewLevelsCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
