package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"interminai/internal/requestserver"
)

// roundTrip dials sockPath, sends req, and reads the single reply,
// matching the daemon's one-request-one-response-then-close contract.
func roundTrip(sockPath string, req *requestserver.Request) (*requestserver.Response, error) {
	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", sockPath, err)
	}
	defer conn.Close()

	if err := requestserver.SendRequest(conn, req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	resp, err := requestserver.ReadResponse(conn)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

// requireSocketFlag reads the --socket flag shared by every non-start
// subcommand and errors if it was left empty.
func requireSocketFlag(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("socket")
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", fmt.Errorf("--socket is required")
	}
	return path, nil
}

func addSocketFlag(cmd *cobra.Command) {
	cmd.Flags().String("socket", "", "path to the daemon's Unix domain socket")
	cmd.MarkFlagRequired("socket")
}
