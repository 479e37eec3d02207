package iomux

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"interminai/internal/requestserver"
	"interminai/internal/session"
)

func dial(t *testing.T, path string) net.Conn {
	t.Helper()
	conn, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func roundTrip(t *testing.T, path string, req *requestserver.Request) *requestserver.Response {
	t.Helper()
	conn := dial(t, path)
	defer conn.Close()
	if err := requestserver.SendRequest(conn, req); err != nil {
		t.Fatalf("send: %v", err)
	}
	resp, err := requestserver.ReadResponse(conn)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp
}

func TestLoopServicesInputOutputAndStop(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	sess, err := session.Start("/bin/sh", []string{"-c", "cat"}, 5, 20)
	if err != nil {
		t.Fatalf("session.Start: %v", err)
	}
	defer sess.Close()

	fd, err := Listen(sockPath)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer Close(fd, sockPath)

	loop := New(sess, fd)
	done := make(chan error, 1)
	go func() { done <- loop.Run() }()

	waitForSocket(t, sockPath)

	resp := roundTrip(t, sockPath, &requestserver.Request{Type: "INPUT", Data: "ping"})
	if !resp.OK {
		t.Fatalf("INPUT failed: %s", resp.Error)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		out := roundTrip(t, sockPath, &requestserver.Request{Type: "OUTPUT"})
		if out.Screen != "" {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	stopResp := roundTrip(t, sockPath, &requestserver.Request{Type: "STOP"})
	if !stopResp.OK {
		t.Fatalf("STOP failed: %s", stopResp.Error)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loop did not exit after STOP")
	}
}

func waitForSocket(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("socket never appeared at %s", path)
}
