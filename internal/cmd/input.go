package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

func newInputCmd() *cobra.Command {
	var raw string

	cmd := &cobra.Command{
		Use:   "input --text STRING",
		Short: "Write bytes to the session's PTY",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := requireSocketFlag(cmd)
			if err != nil {
				return err
			}
			resp, err := roundTrip(sock, &requestserver.Request{Type: "INPUT", Data: decodeEscapes(raw)})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s", resp.Error)
			}
			return nil
		},
	}

	addSocketFlag(cmd)
	cmd.Flags().StringVar(&raw, "text", "", "text to send, with \\n \\r \\t \\xHH escapes")
	cmd.MarkFlagRequired("text")
	return cmd
}
