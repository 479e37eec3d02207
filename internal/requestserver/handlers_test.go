package requestserver

import (
	"syscall"
	"testing"
	"time"

	"interminai/internal/session"
)

func newTestSession(t *testing.T, script string, rows, cols int) *session.Session {
	t.Helper()
	s, err := session.Start("/bin/sh", []string{"-c", script}, rows, cols)
	if err != nil {
		t.Fatalf("session.Start: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func pump(s *session.Session, cond func() bool) {
	for i := 0; i < 2000 && !cond(); i++ {
		s.PumpOnce()
	}
}

func TestInputOutputRoundTrip(t *testing.T) {
	s := newTestSession(t, "cat", 5, 20)

	resp := Dispatch(s, &Request{Type: "INPUT", Data: "hi"})
	if !resp.OK {
		t.Fatalf("INPUT failed: %s", resp.Error)
	}

	pump(s, func() bool {
		screen, _, _, _, _ := s.Snapshot(false)
		return len(screen) > 0 && screen[0] == 'h'
	})

	out := Dispatch(s, &Request{Type: "OUTPUT", Format: "ascii"})
	if !out.OK || out.Screen == "" {
		t.Fatalf("OUTPUT got %+v", out)
	}
}

func TestStatusActivityClearsFlag(t *testing.T) {
	s := newTestSession(t, "printf x", 3, 10)
	pump(s, func() bool { return s.PeekActivity() })

	resp := Dispatch(s, &Request{Type: "STATUS", Activity: true})
	if resp.Activity == nil || !*resp.Activity {
		t.Fatalf("expected activity=true, got %+v", resp)
	}

	resp2 := Dispatch(s, &Request{Type: "STATUS", Activity: true})
	if resp2.Activity == nil || *resp2.Activity {
		t.Fatalf("expected activity=false after consume, got %+v", resp2)
	}
}

func TestKillUnknownSignal(t *testing.T) {
	s := newTestSession(t, "sleep 5", 3, 10)
	defer s.Signal(9)

	resp := Dispatch(s, &Request{Type: "KILL", Signal: "BOGUS"})
	if resp.OK {
		t.Fatalf("expected error for unknown signal")
	}
}

func TestResizeUpdatesSize(t *testing.T) {
	s := newTestSession(t, "sleep 5", 5, 20)
	defer s.Signal(9)

	resp := Dispatch(s, &Request{Type: "RESIZE", Cols: 40, Rows: 10})
	if !resp.OK || resp.Cols != 40 || resp.Rows != 10 {
		t.Fatalf("got %+v", resp)
	}
	out := Dispatch(s, &Request{Type: "OUTPUT"})
	if out.Size.Rows != 10 || out.Size.Cols != 40 {
		t.Fatalf("got size %+v", out.Size)
	}
}

func TestWaiterCompletesOnExit(t *testing.T) {
	s := newTestSession(t, "exit 5", 3, 10)

	w := NewWaiter(&Request{Type: "WAIT"})
	var resp *Response
	for i := 0; i < 2000; i++ {
		s.Reap()
		r, done := w.Evaluate(s)
		if done {
			resp = r
			break
		}
	}
	if resp == nil {
		t.Fatalf("waiter never completed")
	}
	if resp.ExitCode == nil || *resp.ExitCode != 5 {
		t.Fatalf("got %+v", resp)
	}
}

func TestStopSetsShutdownAndSignalsChild(t *testing.T) {
	s := newTestSession(t, "sleep 5", 3, 10)

	resp := Dispatch(s, &Request{Type: "STOP"})
	if !resp.OK {
		t.Fatalf("STOP failed: %s", resp.Error)
	}
	if !s.ShuttingDown() {
		t.Fatalf("expected shutdown flag set")
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, done := s.Reap(); done {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	want := 128 + int(syscall.SIGTERM)
	if code, done := s.ExitCode(); !done || code != want {
		t.Fatalf("expected child terminated by SIGTERM (exit %d), got code=%d done=%v", want, code, done)
	}
}
