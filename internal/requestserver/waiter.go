package requestserver

import "interminai/internal/session"

// Waiter holds a pending WAIT request across event-loop ticks. The loop
// owns the Conn's lifetime; Waiter only decides when the wait is over.
type Waiter struct {
	Activity bool // false: wait for exit only. true: wait for activity-or-exit.
}

// NewWaiter builds a Waiter from a WAIT request.
func NewWaiter(req *Request) *Waiter {
	return &Waiter{Activity: req.Activity}
}

// Evaluate checks whether the wait condition is satisfied. It must be
// called at most once per tick per waiter so an activity observation is
// not silently consumed by a tick that doesn't end up completing the
// wait.
func (w *Waiter) Evaluate(sess *session.Session) (resp *Response, done bool) {
	code, exited := sess.ExitCode()

	if !w.Activity {
		if exited {
			return &Response{OK: true, ExitCode: intPtr(code)}, true
		}
		return nil, false
	}

	if sess.PeekActivity() || exited {
		activity := sess.ConsumeActivity()
		return &Response{OK: true, Activity: boolPtr(activity), Exited: boolPtr(exited)}, true
	}
	return nil, false
}
