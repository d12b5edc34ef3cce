package main

import (
	"fmt"
	"os"

	"github.com/fnmeyer/mackup/cmd/mackup"
	"github.com/fnmeyer/mackup/pkg/errors"
	"github.com/fnmeyer/mackup/pkg/style"
)

func main() {
	rootCmd := mackup.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		renderer := style.NewTerminalRenderer(style.DetectFormat(os.Stderr))
		fmt.Fprintln(os.Stderr, renderer.RenderError(err))

		// Each error category carries its own exit code so scripts can
		// branch on what went wrong.
		os.Exit(errors.ExitCode(err))
	}
}
