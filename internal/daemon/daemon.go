// Package daemon implements socket path resolution (explicit or
// auto-generated), the double-fork-via-re-exec daemonization sequence,
// and the foreground (--no-daemon) path.
package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"interminai/internal/config"
	"interminai/internal/iomux"
	"interminai/internal/session"
)

// ReexecIntermediateEnv, when set to "1" in the child's environment,
// signals that this process is the intermediate hop of the double fork:
// it forks the grandchild, prints its PID and exits without ever
// entering the event loop.
const ReexecIntermediateEnv = "INTERMINAI_REEXEC_INTERMEDIATE"

// ReexecGrandchildEnv, when set to "1", signals that this process is the
// grandchild: it redirects its standard streams to /dev/null, creates a
// new session, and runs the event loop until shutdown.
const ReexecGrandchildEnv = "INTERMINAI_REEXEC_GRANDCHILD"

// Options configures a single daemon launch.
type Options struct {
	Command    string
	Args       []string
	Rows, Cols int
	SocketPath string // empty means auto-generate
	Foreground bool   // --no-daemon
	PTYDump    string // optional path to mirror raw PTY output bytes to
}

// Resolve fills in an auto-generated socket path when none was supplied,
// creating a fresh temp directory with prefix "interminai-" (under the
// config file's socket_dir when one is set and can be created, else under
// the OS temp dir) and a uuid-named socket file inside it. An flock guards
// against a race between two concurrent auto-generating `start`
// invocations picking the same directory (vanishingly unlikely with a
// uuid component, but free to add and cheap to hold for the duration of
// directory creation).
func Resolve(opts Options) (socketPath string, autoGenerated bool, cleanup func(), err error) {
	if opts.SocketPath != "" {
		return opts.SocketPath, false, func() {}, nil
	}

	base := ""
	if cfg, cfgErr := config.Load(); cfgErr == nil && cfg.SocketDir != "" {
		if mkErr := os.MkdirAll(cfg.SocketDir, 0o755); mkErr == nil {
			base = cfg.SocketDir
		}
	}

	dir, err := os.MkdirTemp(base, "interminai-")
	if err != nil {
		return "", false, nil, fmt.Errorf("create socket temp dir: %w", err)
	}

	lockPath := filepath.Join(dir, ".lock")
	lk := flock.New(lockPath)
	if ok, err := lk.TryLock(); err != nil || !ok {
		os.RemoveAll(dir)
		return "", false, nil, fmt.Errorf("lock socket dir: %w", err)
	}
	defer lk.Unlock()

	sockPath := filepath.Join(dir, uuid.New().String()+".sock")
	cleanup = func() {
		os.Remove(sockPath)
		os.Remove(lockPath)
		os.Remove(dir)
	}
	return sockPath, true, cleanup, nil
}

// RunForeground starts the PTY and event loop directly in this process,
// used for --no-daemon and as the body the re-exec chain eventually
// reaches in the grandchild.
func RunForeground(opts Options, socketPath string, autoGenerated bool) error {
	sess, err := session.Start(opts.Command, opts.Args, opts.Rows, opts.Cols)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.Close()
	sess.SocketPath = socketPath
	sess.AutoGenerated = autoGenerated

	if opts.PTYDump != "" {
		dumpFile, err := os.Create(opts.PTYDump)
		if err != nil {
			return fmt.Errorf("open --pty-dump file: %w", err)
		}
		defer dumpFile.Close()
		sess.RawOutputSink = dumpFile
	}

	fd, err := iomux.Listen(socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer func() {
		iomux.Close(fd, socketPath)
		if sess.AutoGenerated {
			os.RemoveAll(filepath.Dir(socketPath))
		}
	}()

	return iomux.New(sess, fd).Run()
}

// Start launches the daemon per Options. In foreground mode it blocks
// running the event loop. In daemon mode it performs the double-fork
// re-exec and returns once the grandchild's socket exists, printing the
// socket path, PID, and whether the socket was auto-generated.
func Start(opts Options) error {
	socketPath, autoGenerated, cleanup, err := Resolve(opts)
	if err != nil {
		return err
	}

	if opts.Foreground {
		fmt.Printf("Socket: %s\n", socketPath)
		fmt.Printf("PID: %d\n", os.Getpid())
		fmt.Printf("Auto-generated: %v\n", autoGenerated)
		defer cleanup()
		return RunForeground(opts, socketPath, autoGenerated)
	}

	pid, err := reexecIntermediate(opts, socketPath, autoGenerated)
	if err != nil {
		cleanup()
		return err
	}

	fmt.Printf("Socket: %s\n", socketPath)
	fmt.Printf("PID: %d\n", pid)
	fmt.Printf("Auto-generated: %v\n", autoGenerated)
	return nil
}

// reexecIntermediate re-execs this binary once to become the
// intermediate hop, waits for it to report the grandchild's PID, and
// returns that PID. The intermediate itself performs the second re-exec
// and exits immediately, avoiding a zombie the way a native
// fork-fork-waitpid sequence would.
func reexecIntermediate(opts Options, socketPath string, autoGenerated bool) (int, error) {
	exe, err := findInterminaid()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(exe, reexecArgs(opts, socketPath, autoGenerated)...)
	cmd.Env = append(os.Environ(), ReexecIntermediateEnv+"=1")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	pidR, pidW, err := os.Pipe()
	if err != nil {
		return 0, fmt.Errorf("create pid pipe: %w", err)
	}
	cmd.Stdout = pidW
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		pidR.Close()
		pidW.Close()
		return 0, fmt.Errorf("start intermediate: %w", err)
	}
	pidW.Close()

	var grandchildPID int
	if _, err := fmt.Fscanf(pidR, "PID: %d", &grandchildPID); err != nil {
		cmd.Wait()
		return 0, fmt.Errorf("read grandchild pid: %w", err)
	}
	pidR.Close()
	cmd.Wait() // reap the intermediate, which has already exited

	if err := waitForSocket(socketPath, 5*time.Second); err != nil {
		return 0, err
	}
	return grandchildPID, nil
}

// RunIntermediate is the entry point used when ReexecIntermediateEnv is
// set: fork the grandchild, print its PID, and exit without ever opening
// a PTY or entering the event loop.
func RunIntermediate(opts Options, socketPath string, autoGenerated bool) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}

	cmd := exec.Command(exe, reexecArgs(opts, socketPath, autoGenerated)...)
	cmd.Env = append(os.Environ(), ReexecGrandchildEnv+"=1")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open /dev/null: %w", err)
	}
	defer devNull.Close()
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start grandchild: %w", err)
	}
	fmt.Printf("PID: %d\n", cmd.Process.Pid)

	// Release the grandchild without waiting on it; it outlives this
	// process once this process exits.
	go cmd.Process.Release()
	return nil
}

// RunGrandchild is the entry point used when ReexecGrandchildEnv is set:
// this process becomes the long-lived daemon.
func RunGrandchild(opts Options, socketPath string, autoGenerated bool) error {
	return RunForeground(opts, socketPath, autoGenerated)
}

func reexecArgs(opts Options, socketPath string, autoGenerated bool) []string {
	args := []string{
		"--socket", socketPath,
		"--rows", fmt.Sprint(opts.Rows),
		"--cols", fmt.Sprint(opts.Cols),
		"--auto-generated=" + fmt.Sprint(autoGenerated),
	}
	if opts.PTYDump != "" {
		args = append(args, "--pty-dump", opts.PTYDump)
	}
	args = append(args, "--", opts.Command)
	return append(args, opts.Args...)
}

// findInterminaid locates the daemon binary: first beside the currently
// running executable (the usual case when both binaries are built into
// the same output directory), then falling back to $PATH.
func findInterminaid() (string, error) {
	if exe, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "interminaid")
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}
	path, err := exec.LookPath("interminaid")
	if err != nil {
		return "", fmt.Errorf("locate interminaid binary: %w", err)
	}
	return path, nil
}

func waitForSocket(path string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		time.Sleep(20 * time.Millisecond)
	}
	return fmt.Errorf("daemon did not start (socket %s not found)", path)
}
