package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

func newOutputCmd() *cobra.Command {
	var format string
	var cursorMode string

	cmd := &cobra.Command{
		Use:   "output",
		Short: "Read the rendered screen",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := requireSocketFlag(cmd)
			if err != nil {
				return err
			}

			// An ansi-format request is only useful to a client that can
			// render SGR escapes; downgrade to ascii when stdout has no
			// color profile at all (e.g. piped to a file or `| head`).
			effectiveFormat := format
			if effectiveFormat == "ansi" && termenv.EnvColorProfile() == termenv.Ascii {
				effectiveFormat = "ascii"
			}

			resp, err := roundTrip(sock, &requestserver.Request{Type: "OUTPUT", Format: effectiveFormat})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s", resp.Error)
			}

			row, col := 0, 0
			if resp.Cursor != nil {
				row, col = resp.Cursor.Row, resp.Cursor.Col
			}
			screen := resp.Screen
			if (cursorMode == "inverse" || cursorMode == "both") && !isatty.IsTerminal(os.Stdout.Fd()) {
				cursorMode = "print"
			}
			fmt.Fprintln(cmd.OutOrStdout(), applyCursorOverlay(cursorMode, screen, row, col))
			return nil
		},
	}

	addSocketFlag(cmd)
	cmd.Flags().StringVar(&format, "format", "ascii", "screen rendering: ascii or ansi")
	cmd.Flags().StringVar(&cursorMode, "cursor", "none", "cursor overlay: none, inverse, print, or both")
	return cmd
}
