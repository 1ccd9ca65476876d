package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/docshell/docshell/cmd"
	"github.com/docshell/docshell/internal/proc"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// The static server's exit code becomes our exit code. Its own
		// output already explains the failure.
		var exitErr *proc.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.Code
			if code < 0 {
				code = 1
			}
			os.Exit(code)
		}

		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
