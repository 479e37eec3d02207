package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"interminai/internal/config"
	"interminai/internal/daemon"
)

func newStartCmd() *cobra.Command {
	var (
		socketPath string
		size       string
		noDaemon   bool
		ptyDump    string
		command    string
	)

	cmd := &cobra.Command{
		Use:   "start [-- <command> [args...]]",
		Short: "Start a session daemon wrapping a command under a PTY",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("size") {
				if cfg, err := config.Load(); err == nil && cfg.DefaultRows > 0 && cfg.DefaultCols > 0 {
					size = fmt.Sprintf("%dx%d", cfg.DefaultRows, cfg.DefaultCols)
				}
			}
			rows, cols, err := parseSize(size)
			if err != nil {
				return err
			}

			argv := args
			if command != "" {
				if len(args) > 0 {
					return fmt.Errorf("specify either --command or a trailing command, not both")
				}
				argv, err = shlex.Split(command)
				if err != nil {
					return fmt.Errorf("invalid --command: %w", err)
				}
			}
			if len(argv) == 0 {
				return fmt.Errorf("a command is required, either as trailing args or via --command")
			}

			opts := daemon.Options{
				Command:    argv[0],
				Args:       argv[1:],
				Rows:       rows,
				Cols:       cols,
				SocketPath: socketPath,
				Foreground: noDaemon,
				PTYDump:    ptyDump,
			}
			return daemon.Start(opts)
		},
	}

	cmd.Flags().StringVar(&socketPath, "socket", "", "explicit socket path (default: auto-generated)")
	cmd.Flags().StringVar(&size, "size", "24x80", "terminal size as RxC, e.g. 24x80")
	cmd.Flags().BoolVar(&noDaemon, "no-daemon", false, "run in the foreground instead of daemonizing")
	cmd.Flags().StringVar(&ptyDump, "pty-dump", "", "write raw PTY output bytes to this file")
	cmd.Flags().StringVar(&command, "command", "", "command and args as a single shell-quoted string, e.g. --command \"sh -c 'vim file'\"")

	return cmd
}

// parseSize parses a "RxC" size string (rows x cols).
func parseSize(s string) (rows, cols int, err error) {
	parts := strings.SplitN(s, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid --size %q, want RxC (e.g. 24x80)", s)
	}
	rows, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid rows in --size %q: %w", s, err)
	}
	cols, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cols in --size %q: %w", s, err)
	}
	if rows < 1 || cols < 1 {
		return 0, 0, fmt.Errorf("--size %q must have rows and cols >= 1", s)
	}
	return rows, cols, nil
}
