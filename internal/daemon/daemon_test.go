package daemon

import (
	"path/filepath"
	"testing"
	"time"

	"interminai/internal/requestserver"

	"net"
)

func TestResolveExplicitPathNotAutoGenerated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "explicit.sock")
	got, auto, cleanup, err := Resolve(Options{SocketPath: path})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer cleanup()
	if got != path || auto {
		t.Fatalf("got %q auto=%v, want %q auto=false", got, auto, path)
	}
}

func TestResolveAutoGeneratesUniquePaths(t *testing.T) {
	a, autoA, cleanupA, err := Resolve(Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer cleanupA()
	b, autoB, cleanupB, err := Resolve(Options{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	defer cleanupB()

	if !autoA || !autoB {
		t.Fatalf("expected both auto-generated")
	}
	if a == b {
		t.Fatalf("expected distinct socket paths, got %q twice", a)
	}
}

func TestRunForegroundServesRequestsUntilStop(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "fg.sock")
	opts := Options{Command: "/bin/sh", Args: []string{"-c", "cat"}, Rows: 5, Cols: 20}

	done := make(chan error, 1)
	go func() { done <- RunForeground(opts, sockPath, false) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if conn, err := net.Dial("unix", sockPath); err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := requestserver.SendRequest(conn, &requestserver.Request{Type: "STOP"}); err != nil {
		t.Fatalf("send STOP: %v", err)
	}
	resp, err := requestserver.ReadResponse(conn)
	if err != nil {
		t.Fatalf("read STOP response: %v", err)
	}
	conn.Close()
	if !resp.OK {
		t.Fatalf("STOP failed: %s", resp.Error)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunForeground returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("RunForeground did not exit after STOP")
	}
}
