package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

func newWaitCmd() *cobra.Command {
	var activity bool

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Block until the child exits, or until activity occurs with --activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := requireSocketFlag(cmd)
			if err != nil {
				return err
			}
			resp, err := roundTrip(sock, &requestserver.Request{Type: "WAIT", Activity: activity})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s", resp.Error)
			}

			if activity {
				act := resp.Activity != nil && *resp.Activity
				exited := resp.Exited != nil && *resp.Exited
				fmt.Fprintf(cmd.OutOrStdout(), "activity=%v exited=%v\n", act, exited)
				return nil
			}

			if resp.ExitCode != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "exit_code=%d\n", *resp.ExitCode)
			}
			return nil
		},
	}

	addSocketFlag(cmd)
	cmd.Flags().BoolVar(&activity, "activity", false, "return at the next tick with activity or exit, instead of blocking for exit only")
	return cmd
}
