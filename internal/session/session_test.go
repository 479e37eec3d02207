package session

import (
	"testing"
)

func TestStartAndPumpEcho(t *testing.T) {
	s, err := Start("/bin/sh", []string{"-c", "printf hi"}, 5, 20)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	deadlineLoop(t, func() bool {
		s.PumpOnce()
		screen, _, _, _, _ := s.Snapshot(false)
		return screen != "" && screen[0] == 'h'
	})

	screen, _, _, _, _ := s.Snapshot(false)
	if screen == "" {
		t.Fatalf("expected non-empty screen, got empty")
	}
}

func TestActivityFlagSetOnReadClearedOnConsume(t *testing.T) {
	s, err := Start("/bin/sh", []string{"-c", "printf x"}, 3, 10)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	deadlineLoop(t, func() bool {
		s.PumpOnce()
		return s.PeekActivity()
	})

	if !s.ConsumeActivity() {
		t.Fatalf("expected activity flag set")
	}
	if s.ConsumeActivity() {
		t.Fatalf("expected activity flag cleared after consume")
	}
}

func TestReapReportsExitCode(t *testing.T) {
	s, err := Start("/bin/sh", []string{"-c", "exit 3"}, 3, 10)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	deadlineLoop(t, func() bool {
		_, done := s.Reap()
		return done
	})

	code, done := s.ExitCode()
	if !done || code != 3 {
		t.Fatalf("got code=%d done=%v, want 3/true", code, done)
	}
	if s.Running() {
		t.Fatalf("expected Running() false after reap")
	}
}

func TestResizeUpdatesEmulatorDimensions(t *testing.T) {
	s, err := Start("/bin/sh", []string{"-c", "sleep 1"}, 5, 20)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()
	defer s.Signal(9)

	if err := s.Resize(10, 40); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	_, _, _, rows, cols := s.Snapshot(false)
	if rows != 10 || cols != 40 {
		t.Fatalf("got (%d,%d), want (10,40)", rows, cols)
	}
}

// deadlineLoop polls cond a bounded number of times so tests don't spin
// forever on a PTY that never produces the expected state.
func deadlineLoop(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 2000; i++ {
		if cond() {
			return
		}
	}
	t.Fatalf("condition never became true")
}
