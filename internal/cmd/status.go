package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

func newStatusCmd() *cobra.Command {
	var quiet bool
	var activity bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the child process is still running",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := requireSocketFlag(cmd)
			if err != nil {
				return err
			}
			resp, err := roundTrip(sock, &requestserver.Request{Type: "STATUS", Activity: activity})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s", resp.Error)
			}

			running := resp.Running != nil && *resp.Running
			if quiet {
				if !running {
					return fmt.Errorf("not running")
				}
				return nil
			}

			if resp.ExitCode != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "running=%v exit_code=%d\n", running, *resp.ExitCode)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "running=%v\n", running)
			}
			if resp.Activity != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "activity=%v\n", *resp.Activity)
			}
			return nil
		},
	}

	addSocketFlag(cmd)
	cmd.Flags().BoolVar(&quiet, "quiet", false, "exit 0 iff running, print nothing")
	cmd.Flags().BoolVar(&activity, "activity", false, "also query and clear the activity flag")
	return cmd
}
