package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

func newResizeCmd() *cobra.Command {
	var size string

	cmd := &cobra.Command{
		Use:   "resize --size RxC",
		Short: "Resize the emulated terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			sock, err := requireSocketFlag(cmd)
			if err != nil {
				return err
			}
			rows, cols, err := parseSize(size)
			if err != nil {
				return err
			}
			resp, err := roundTrip(sock, &requestserver.Request{Type: "RESIZE", Rows: rows, Cols: cols})
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("%s", resp.Error)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rows=%d cols=%d\n", resp.Rows, resp.Cols)
			return nil
		},
	}

	addSocketFlag(cmd)
	cmd.Flags().StringVar(&size, "size", "", "new size as RxC, e.g. 24x80")
	cmd.MarkFlagRequired("size")
	return cmd
}
