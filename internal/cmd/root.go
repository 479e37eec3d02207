// Package cmd implements the interminai client-side CLI: argument
// parsing, JSON envelope encoding, and cosmetic output formatting. None
// of this lives in the daemon process itself.
package cmd

import (
	"github.com/spf13/cobra"

	"interminai/internal/version"
)

// NewRootCmd creates the root cobra command with every client subcommand.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "interminai",
		Short:   "Drive a full-screen terminal program from scripts and agents",
		Long:    "interminai spawns a program under a PTY, emulates its screen, and exposes a local-socket API to inject input, read the rendered screen, resize, signal, wait, and stop it.",
		Version: version.DisplayVersion(),
	}

	rootCmd.AddCommand(
		newStartCmd(),
		newInputCmd(),
		newOutputCmd(),
		newStatusCmd(),
		newWaitCmd(),
		newKillCmd(),
		newStopCmd(),
		newResizeCmd(),
		newDebugCmd(),
	)

	return rootCmd
}
