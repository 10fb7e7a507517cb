package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logsift/pkg/parser"
)

// NewLevelsCommand creates the levels command.
func NewLevelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List severity levels and the keywords that select them",
		Long: `List every severity and the level keywords that classify as it.
Matching is case-insensitive. Any other keyword classifies as UNKNOWN.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-10s %s\n", "SEVERITY", "KEYWORDS")
			for _, s := range parser.Severities() {
				keywords := strings.Join(s.Keywords(), ", ")
				if keywords == "" {
					keywords = "(anything else)"
				}
				fmt.Fprintf(w, "%-10s %s\n", s, keywords)
			}
		},
	}
}
