package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <line>...",
		Short: "Parse literal log lines and show the result",
		Long: `Parse each argument as a single log line and print the parsed entry,
or the reason the line was rejected.

Quote each line so the shell passes it as one argument:

  logsift check "2024-01-01T00:00:00Z [warn] disk almost full"

Exit codes:
  0 - Every line parsed
  1 - At least one line was malformed`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	invalid := 0
	for _, line := range args {
		entry, err := parser.ParseLine(line)
		if err != nil {
			invalid++
			reason := err.Error()
			var perr *parser.ParseError
			if errors.As(err, &perr) {
				reason = perr.Reason
			}
			fmt.Fprintf(w, "invalid  %q: %s\n", line, reason)
			continue
		}
		fmt.Fprintf(w, "ok       %s\n", entry)
	}

	if invalid > 0 {
		ExitCode = 1
	}
	return nil
}
