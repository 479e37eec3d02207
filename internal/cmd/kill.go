package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

func newKillCmd() *cobra.Command {
	var signal string

	cmd := &cobra.Command{
		Use:   "kill --signal SIG",
		Short: "Send a signal to the child process",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := requireSocketFlag(cmd)
			if err != nil {
				return err
			}
			resp, err := roundTrip(sock, &requestserver.Request{Type: "KILL", Signal: signal})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s", resp.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signal_sent=%s\n", resp.SignalSent)
			return nil
		},
	}

	addSocketFlag(cmd)
	cmd.Flags().StringVar(&signal, "signal", "TERM", "signal to send, name (with or without SIG) or number")
	return cmd
}
