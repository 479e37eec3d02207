package requestserver

import (
	"syscall"

	"interminai/internal/session"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

// Dispatch serves every verb except WAIT, which requires registration
// with the event loop's waiter list (see NewWaiter). It never blocks:
// callers run it on the single event-loop goroutine between multiplexer
// ticks.
func Dispatch(sess *session.Session, req *Request) *Response {
	switch req.Type {
	case "INPUT":
		return handleInput(sess, req)
	case "OUTPUT":
		return handleOutput(sess, req)
	case "STATUS":
		return handleStatus(sess, req)
	case "KILL":
		return handleKill(sess, req)
	case "STOP":
		return handleStop(sess)
	case "RESIZE":
		return handleResize(sess, req)
	case "DEBUG":
		return handleDebug(sess, req)
	default:
		return errorResponse("unknown request type %q", req.Type)
	}
}

func handleInput(sess *session.Session, req *Request) *Response {
	if _, err := sess.WriteInput([]byte(req.Data)); err != nil {
		return errorResponse("write to pty: %v", err)
	}
	return &Response{OK: true}
}

func handleOutput(sess *session.Session, req *Request) *Response {
	attributed := req.Format == "ansi"
	screen, row, col, rows, cols := sess.Snapshot(attributed)
	return &Response{
		OK:     true,
		Screen: screen,
		Cursor: &Point{Row: row, Col: col},
		Size:   &Size{Rows: rows, Cols: cols},
	}
}

func handleStatus(sess *session.Session, req *Request) *Response {
	resp := &Response{OK: true}
	code, done := sess.ExitCode()
	resp.Running = boolPtr(!done)
	if done {
		resp.ExitCode = intPtr(code)
	}
	if req.Activity {
		resp.Activity = boolPtr(sess.ConsumeActivity())
	}
	return resp
}

func handleKill(sess *session.Session, req *Request) *Response {
	if req.Signal == "" {
		return errorResponse("missing 'signal' field")
	}
	sig, err := parseSignal(req.Signal)
	if err != nil {
		return errorResponse("invalid signal: %v", err)
	}
	if err := sess.Signal(sig); err != nil {
		return errorResponse("send signal: %v", err)
	}
	return &Response{OK: true, SignalSent: req.Signal}
}

func handleStop(sess *session.Session) *Response {
	if sess.Running() {
		sess.Signal(syscall.SIGTERM)
	}
	sess.RequestShutdown()
	return &Response{OK: true, Message: "Shutting down"}
}

func handleResize(sess *session.Session, req *Request) *Response {
	if req.Cols <= 0 || req.Rows <= 0 {
		return errorResponse("missing or invalid 'cols'/'rows' field")
	}
	if err := sess.Resize(req.Rows, req.Cols); err != nil {
		return errorResponse("resize: %v", err)
	}
	return &Response{OK: true, Cols: req.Cols, Rows: req.Rows}
}

func handleDebug(sess *session.Session, req *Request) *Response {
	entries, dropped := sess.DebugSnapshot(req.Clear)
	out := make([]UnhandledEntry, len(entries))
	for i, e := range entries {
		out[i] = UnhandledEntry{Sequence: e.Sequence, RawHex: e.RawHex}
	}
	resp := &Response{OK: true, Unhandled: out, Dropped: dropped}
	if t := snapshotTermios(sess.PTY.Master); t != nil {
		resp.Termios = t
	}
	return resp
}
