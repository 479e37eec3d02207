// Package session owns the daemon's singleton aggregate: the PTY
// channel, the terminal emulator, child exit status, activity/shutdown
// flags, and socket cleanup metadata. It is mutated only by the single
// event-loop goroutine in internal/iomux.
package session

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"syscall"

	"interminai/internal/emulator"
	"interminai/internal/ptychannel"
)

// Session is the daemon's singleton aggregate: one PTY, one child
// process, one terminal emulator.
type Session struct {
	PTY  *ptychannel.Channel
	Term *emulator.Terminal

	// SocketPath and AutoGenerated travel with the Session, not local
	// stack state, so a disconnecting controller can't strand files.
	SocketPath    string
	AutoGenerated bool

	// RawOutputSink, if non-nil, receives every raw chunk read from the
	// PTY master before it's fed to the emulator.
	RawOutputSink io.Writer

	mu       sync.Mutex
	exitCode *int
	activity bool
	shutdown bool
}

// New constructs a Session around an already-open PTY channel and a
// freshly sized emulator.
func New(ch *ptychannel.Channel, rows, cols int) *Session {
	return &Session{
		PTY:  ch,
		Term: emulator.New(rows, cols),
	}
}

// Start execs command under a PTY of the given size and wraps it in a
// new Session. TERM is set to "ansi": the emulator implements a reduced
// escape subset, and advertising that subset keeps full-screen apps from
// relying on scroll regions or other sequences it doesn't model.
func Start(command string, args []string, rows, cols int) (*Session, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = append(cmd.Environ(), "TERM=ansi")

	ch, err := ptychannel.Open(cmd, rows, cols)
	if err != nil {
		return nil, fmt.Errorf("open pty: %w", err)
	}
	return New(ch, rows, cols), nil
}

// PumpOnce performs one ReadAvailable cycle: each non-empty chunk is
// written to the raw-output sink, fed to the emulator, and sets the
// activity flag; afterward the emulator's pending replies are drained
// and written back to the master. Returns whether the PTY hit EOF.
func (s *Session) PumpOnce() (eof bool, err error) {
	chunks, eof, err := s.PTY.ReadAvailable()
	if err != nil {
		return eof, err
	}
	if len(chunks) > 0 {
		s.mu.Lock()
		for _, c := range chunks {
			if s.RawOutputSink != nil {
				s.RawOutputSink.Write(c)
			}
			s.Term.Feed(c)
		}
		s.activity = true
		s.mu.Unlock()
	}

	s.mu.Lock()
	replies := s.Term.DrainReplies()
	s.mu.Unlock()
	for _, r := range replies {
		s.PTY.Write(r) // best-effort; a dropped reply is not retried
	}
	return eof, nil
}

// WriteInput writes bytes to the PTY master. One attempt; errors are
// returned to the caller.
func (s *Session) WriteInput(data []byte) (int, error) {
	return s.PTY.Write(data)
}

// Resize issues TIOCSWINSZ and resizes the emulator, preserving the
// dimension invariant between PTY and grid.
func (s *Session) Resize(rows, cols int) error {
	if err := s.PTY.Resize(rows, cols); err != nil {
		return err
	}
	s.mu.Lock()
	s.Term.Resize(rows, cols)
	s.mu.Unlock()
	return nil
}

// Signal sends sig to the child.
func (s *Session) Signal(sig syscall.Signal) error {
	return s.PTY.Signal(sig)
}

// Reap probes for child exit and records the exit code on the session
// once observed. Safe to call repeatedly.
func (s *Session) Reap() (code int, done bool) {
	code, done = s.PTY.Reap()
	if done {
		s.mu.Lock()
		if s.exitCode == nil {
			s.exitCode = &code
		}
		s.mu.Unlock()
	}
	return code, done
}

// ExitCode returns the child's exit code if it has been reaped.
func (s *Session) ExitCode() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exitCode == nil {
		return 0, false
	}
	return *s.exitCode, true
}

// Running reports whether the child has not yet been reaped.
func (s *Session) Running() bool {
	_, done := s.ExitCode()
	return !done
}

// PeekActivity returns the activity flag's current value without
// clearing it, used for internal waiter evaluation.
func (s *Session) PeekActivity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activity
}

// ConsumeActivity returns the activity flag and clears it. This is the
// only way the flag is cleared; it is set only by a non-empty PTY read.
func (s *Session) ConsumeActivity() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.activity
	s.activity = false
	return v
}

// RequestShutdown sets the shutdown flag; the event loop checks it after
// each tick and exits the accept loop once set.
func (s *Session) RequestShutdown() {
	s.mu.Lock()
	s.shutdown = true
	s.mu.Unlock()
}

// ShuttingDown reports the shutdown flag.
func (s *Session) ShuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdown
}

// Snapshot returns a point-in-time read of screen/cursor/size under the
// session lock, used by the OUTPUT handler.
func (s *Session) Snapshot(attributed bool) (screen string, row, col, rows, cols int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attributed {
		screen = s.Term.RenderAttributed()
	} else {
		screen = s.Term.RenderPlain()
	}
	row, col = s.Term.Cursor()
	rows, cols = s.Term.Dimensions()
	return
}

// DebugSnapshot returns the unhandled-sequence debug entries and
// optionally clears them.
func (s *Session) DebugSnapshot(clear bool) ([]emulator.UnhandledSequence, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, dropped := s.Term.DebugEntries()
	if clear {
		s.Term.ClearDebug()
	}
	return entries, dropped
}

// Close tears down the PTY master. It does not remove the socket file;
// that is the daemon's responsibility since AutoGenerated governs it.
func (s *Session) Close() error {
	return s.PTY.Close()
}
