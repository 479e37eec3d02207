// Command interminaid is the daemon entry point: the binary
// internal/daemon re-execs for the two hops of its double fork, and the
// binary that ultimately owns the PTY and serves the request socket.
// It is never invoked interactively by users — internal/daemon.Start
// drives it.
package main

import (
	"flag"
	"fmt"
	"os"

	"interminai/internal/daemon"
)

func main() {
	socketPath := flag.String("socket", "", "")
	rows := flag.Int("rows", 24, "")
	cols := flag.Int("cols", 80, "")
	autoGenerated := flag.Bool("auto-generated", false, "")
	ptyDump := flag.String("pty-dump", "", "")
	flag.Parse()

	rest := flag.Args()
	if len(rest) == 0 {
		fmt.Fprintln(os.Stderr, "interminaid: missing command")
		os.Exit(1)
	}

	opts := daemon.Options{
		Command:    rest[0],
		Args:       rest[1:],
		Rows:       *rows,
		Cols:       *cols,
		SocketPath: *socketPath,
		PTYDump:    *ptyDump,
	}

	var err error
	switch {
	case os.Getenv(daemon.ReexecIntermediateEnv) == "1":
		err = daemon.RunIntermediate(opts, *socketPath, *autoGenerated)
	case os.Getenv(daemon.ReexecGrandchildEnv) == "1":
		err = daemon.RunGrandchild(opts, *socketPath, *autoGenerated)
	default:
		// Invoked directly rather than via the re-exec chain: run in
		// the foreground, as if --no-daemon had been passed.
		err = daemon.RunForeground(opts, *socketPath, *autoGenerated)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "interminaid:", err)
		os.Exit(1)
	}
}
