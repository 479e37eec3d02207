package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

func newDebugCmd() *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Report unhandled escape sequences and termios state",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := requireSocketFlag(cmd)
			if err != nil {
				return err
			}
			resp, err := roundTrip(sock, &requestserver.Request{Type: "DEBUG", Clear: clear})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s", resp.Error)
			}

			out, err := json.MarshalIndent(struct {
				Unhandled []requestserver.UnhandledEntry `json:"unhandled"`
				Dropped   int                            `json:"dropped"`
				Termios   *requestserver.Termios          `json:"termios,omitempty"`
			}{resp.Unhandled, resp.Dropped, resp.Termios}, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal debug output: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	addSocketFlag(cmd)
	cmd.Flags().BoolVar(&clear, "clear", false, "clear the unhandled-sequence buffer after reporting it")
	return cmd
}
