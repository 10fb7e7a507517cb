// logsift parses "<timestamp> [<level>] <message>" log lines into
// structured entries and classifies their severity.
package main

import (
	"os"

	"github.com/ccollicutt/logsift/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
