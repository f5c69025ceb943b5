// Command sigbind configures and runs signal-processing algorithms from the
// command line.
package main

import (
	"os"

	"github.com/roach88/sigbind/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
