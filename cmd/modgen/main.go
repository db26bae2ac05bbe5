// Command modgen generates mod registration code from source markers.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/modgen/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own failures as ExitErrors; flag and usage
		// errors arrive here unprinted.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
