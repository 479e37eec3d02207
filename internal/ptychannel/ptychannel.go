// Package ptychannel owns the PTY pair and child process lifecycle: open,
// read, write, resize, signal, and reap. It never touches the terminal
// grid — bytes read from the master are handed to the caller, which is
// responsible for feeding them to an emulator (see internal/session).
package ptychannel

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// readChunkSize bounds a single read from the PTY master.
const readChunkSize = 4096

// Channel owns the PTY master and the child *exec.Cmd, exposing
// read/write/resize/signal/reap operations over them.
type Channel struct {
	Master *os.File
	cmd    *exec.Cmd

	// exitCode is nil until the child has been reaped.
	exitCode *int
}

// Open starts command under a new PTY pair sized rows x cols. The child
// gets a new session (pty.StartWithSize calls setsid/TIOCSCTTY via
// creack/pty's Start path), TERM is set by the caller via cmd.Env before
// calling Open. On return, the master is set non-blocking.
func Open(cmd *exec.Cmd, rows, cols int) (*Channel, error) {
	master, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}
	if err := setNonblock(master); err != nil {
		master.Close()
		return nil, fmt.Errorf("set master non-blocking: %w", err)
	}
	return &Channel{Master: master, cmd: cmd}, nil
}

// Pid returns the child process id.
func (c *Channel) Pid() int {
	if c.cmd.Process == nil {
		return -1
	}
	return c.cmd.Process.Pid
}

// ReadAvailable loops reading up to readChunkSize bytes at a time until
// the underlying read would block or hits EOF, returning every non-empty
// chunk read. This is the session's sole source of "activity".
func (c *Channel) ReadAvailable() (chunks [][]byte, eof bool, err error) {
	buf := make([]byte, readChunkSize)
	for {
		n, rerr := c.Master.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			chunks = append(chunks, chunk)
		}
		if rerr != nil {
			if isWouldBlock(rerr) {
				return chunks, false, nil
			}
			return chunks, true, nil
		}
		if n == 0 {
			return chunks, false, nil
		}
	}
}

// Write performs one write attempt; errors are returned to the caller.
func (c *Channel) Write(data []byte) (int, error) {
	return c.Master.Write(data)
}

// Resize issues TIOCSWINSZ on the master. The caller is responsible for
// calling Emulator.Resize with the same dimensions so the PTY and the
// terminal grid never disagree on size.
func (c *Channel) Resize(rows, cols int) error {
	return pty.Setsize(c.Master, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Signal sends sig to the child process.
func (c *Channel) Signal(sig syscall.Signal) error {
	if c.cmd.Process == nil {
		return fmt.Errorf("no child process")
	}
	return c.cmd.Process.Signal(sig)
}

// Reap is a non-blocking child-status probe. It returns (exitCode, true)
// once the child has exited or been signaled; subsequent calls return the
// same final value. Exit-by-signal is encoded as 128+signal.
func (c *Channel) Reap() (code int, done bool) {
	if c.exitCode != nil {
		return *c.exitCode, true
	}

	var ws syscall.WaitStatus
	pid, err := syscall.Wait4(c.Pid(), &ws, syscall.WNOHANG, nil)
	if err != nil || pid == 0 {
		return 0, false
	}

	var result int
	switch {
	case ws.Exited():
		result = ws.ExitStatus()
	case ws.Signaled():
		result = 128 + int(ws.Signal())
	default:
		return 0, false
	}
	c.exitCode = &result
	return result, true
}

// Close releases the master. The slave is closed by creack/pty once the
// child execs and the kernel hands it over; nothing further to do here.
func (c *Channel) Close() error {
	return c.Master.Close()
}
