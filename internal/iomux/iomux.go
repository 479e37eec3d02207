// Package iomux is the single-threaded cooperative I/O multiplexer: one
// goroutine waits on OS-level readiness across the PTY master and the
// listening Unix socket, pumping PTY output and servicing client
// connections with no concurrent access to the Session.
package iomux

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"interminai/internal/requestserver"
	"interminai/internal/session"
)

// pollTimeoutMillis bounds how long a tick can sleep with nothing ready,
// so the shutdown flag and reap status are still observed promptly even
// when no fd becomes readable (e.g. a child that exits without the
// master ever reporting POLLIN).
const pollTimeoutMillis = 50

type pendingWaiter struct {
	conn   *os.File
	waiter *requestserver.Waiter
}

// Loop owns the event loop for one Session and one listening socket.
type Loop struct {
	sess       *session.Session
	listenerFd int
	waiters    []pendingWaiter
}

// New builds a Loop. listenerFd must already be bound and listening
// (see Listen).
func New(sess *session.Session, listenerFd int) *Loop {
	return &Loop{sess: sess, listenerFd: listenerFd}
}

// Run blocks until the session's shutdown flag is set. It never spawns
// goroutines for request handling; every handler call happens on this
// goroutine between multiplexing calls, so Session needs no locking
// against the loop itself.
func (l *Loop) Run() error {
	masterFd := int(l.sess.PTY.Master.Fd())

	for {
		if l.sess.ShuttingDown() {
			return l.closeWaiters()
		}

		fds := make([]unix.PollFd, 2+len(l.waiters))
		fds[0] = unix.PollFd{Fd: int32(masterFd), Events: unix.POLLIN}
		fds[1] = unix.PollFd{Fd: int32(l.listenerFd), Events: unix.POLLIN}
		for i, w := range l.waiters {
			fds[2+i] = unix.PollFd{Fd: int32(w.conn.Fd()), Events: unix.POLLIN}
		}

		_, err := unix.Poll(fds, pollTimeoutMillis)
		if err != nil && err != unix.EINTR {
			return fmt.Errorf("poll: %w", err)
		}

		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP|unix.POLLERR) != 0 {
			if _, err := l.sess.PumpOnce(); err != nil {
				return fmt.Errorf("pump pty: %w", err)
			}
		}
		l.sess.Reap()

		if fds[1].Revents&unix.POLLIN != 0 {
			l.acceptOne()
		}

		l.evaluateWaiters()
	}
}

func (l *Loop) closeWaiters() error {
	for _, w := range l.waiters {
		w.conn.Close()
	}
	l.waiters = nil
	return nil
}

// acceptOne accepts a single connection and either services it
// synchronously or, for WAIT, registers it as a pending waiter.
func (l *Loop) acceptOne() {
	connFd, _, err := unix.Accept(l.listenerFd)
	if err != nil {
		return
	}
	unix.SetNonblock(connFd, true)
	conn := os.NewFile(uintptr(connFd), "client")

	req, err := requestserver.ReadRequest(conn)
	if err != nil {
		conn.Close()
		return
	}

	if req.Type == "WAIT" {
		l.waiters = append(l.waiters, pendingWaiter{conn: conn, waiter: requestserver.NewWaiter(req)})
		return
	}

	resp := requestserver.Dispatch(l.sess, req)
	requestserver.SendResponse(conn, resp)
	conn.Close()
}

// evaluateWaiters drops disconnected waiters, completes satisfied ones,
// and leaves the rest pending for the next tick.
func (l *Loop) evaluateWaiters() {
	if len(l.waiters) == 0 {
		return
	}
	kept := l.waiters[:0]
	for _, w := range l.waiters {
		if isDisconnected(int(w.conn.Fd())) {
			w.conn.Close()
			continue
		}
		resp, done := w.waiter.Evaluate(l.sess)
		if done {
			requestserver.SendResponse(w.conn, resp)
			w.conn.Close()
			continue
		}
		kept = append(kept, w)
	}
	l.waiters = kept
}

// isDisconnected peeks at conn without consuming data, the mechanism
// that rescues the daemon from a hung wait when a controller gave up.
func isDisconnected(fd int) bool {
	buf := make([]byte, 1)
	n, _, err := unix.Recvfrom(fd, buf, unix.MSG_PEEK|unix.MSG_DONTWAIT)
	if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
		return false
	}
	if err != nil {
		return true
	}
	return n == 0
}
