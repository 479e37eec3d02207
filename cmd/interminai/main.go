// Command interminai is the client-side CLI: argument parsing and the
// JSON request/response round trip against a running daemon's socket.
package main

import (
	"fmt"
	"os"

	"interminai/internal/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "interminai:", err)
		os.Exit(1)
	}
}
