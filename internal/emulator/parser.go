package emulator

import "unicode/utf8"

// parser states, named after the ECMA-48 / DEC STD 070 state table.
type parserState uint8

const (
	stateGround parserState = iota
	stateEscape
	stateCSIEntry
	stateOSCString
	stateDCSIgnore
	stateEscIgnore
)

// parser is the byte-stream VT/ANSI state machine. It holds only parsing
// state (current state, accumulated params/intermediates); all terminal
// mutation happens in the Terminal's print, execute, CSI-dispatch and
// ESC-dispatch methods that feed calls.
type parser struct {
	state         parserState
	intermediates []byte
	params        [][]int // each CSI param, possibly colon-separated subparams
	curParam      []int
	private       byte // '?', '>', '=' or 0
	buf           []byte
}

func (p *parser) reset() {
	p.state = stateGround
	p.intermediates = p.intermediates[:0]
	p.params = p.params[:0]
	p.curParam = p.curParam[:0]
	p.private = 0
	p.buf = p.buf[:0]
}

// csiEvent is the final dispatch payload for a CSI sequence.
type csiEvent struct {
	final         byte
	intermediates []byte
	params        [][]int
	private       byte
}

func (e csiEvent) arg(i, def int) int {
	if i < 0 || i >= len(e.params) || len(e.params[i]) == 0 {
		return def
	}
	return e.params[i][0]
}

// argOrOne is arg(i, 1) but also substitutes 1 when the param is present
// but explicitly zero, per the "default per table" rule most CSI movement
// commands use.
func (e csiEvent) argOrOne(i int) int {
	v := e.arg(i, 1)
	if v == 0 {
		return 1
	}
	return v
}

// Terminal.feed consumes data, decoding UTF-8 runes in ground state and
// driving the byte-level FSM for control/escape/CSI/OSC sequences.
func (t *Terminal) feed(data []byte) {
	for len(data) > 0 {
		if t.p.state == stateGround && data[0] >= 0x20 && data[0] != 0x7f {
			r, size := utf8.DecodeRune(data)
			if r == utf8.RuneError && size <= 1 {
				// Invalid byte in ground state: treat as one Latin-1-ish rune
				// rather than silently dropping it (every byte must be
				// accounted for).
				t.handlePrint(rune(data[0]))
				data = data[1:]
				continue
			}
			t.handlePrint(r)
			data = data[size:]
			continue
		}
		t.feedByte(data[0])
		data = data[1:]
	}
}

func (t *Terminal) feedByte(b byte) {
	p := &t.p
	switch p.state {
	case stateGround:
		t.groundByte(b)
	case stateEscape:
		t.escapeByte(b)
	case stateCSIEntry:
		t.csiByte(b)
	case stateOSCString:
		t.oscByte(b)
	case stateDCSIgnore:
		t.dcsByte(b)
	case stateEscIgnore:
		t.escIgnoreByte(b)
	}
}

func (t *Terminal) groundByte(b byte) {
	switch {
	case b == 0x1b:
		t.p.reset()
		t.p.state = stateEscape
	case b < 0x20 || b == 0x7f:
		t.handleExecute(b)
	default:
		// >=0x20 ASCII printable handled by feed's UTF-8 fast path; reaching
		// here only for bytes the fast path declined (shouldn't happen).
		t.handlePrint(rune(b))
	}
}

func (t *Terminal) escapeByte(b byte) {
	switch {
	case b == '[':
		t.p.state = stateCSIEntry
		t.p.params = t.p.params[:0]
		t.p.curParam = t.p.curParam[:0]
		t.p.intermediates = t.p.intermediates[:0]
		t.p.private = 0
	case b == ']':
		t.p.state = stateOSCString
		t.p.buf = t.p.buf[:0]
	case b == 'P' || b == '_' || b == '^' || b == 'X':
		t.p.state = stateDCSIgnore
	case b >= 0x20 && b <= 0x2f:
		t.p.intermediates = append(t.p.intermediates, b)
	case b < 0x20:
		// C0 control received mid-escape: execute it and stay in escape.
		t.handleExecute(b)
	default:
		t.handleEscDispatch(t.p.intermediates, b)
		t.p.state = stateGround
	}
}

func (t *Terminal) csiByte(b byte) {
	switch {
	case b >= '0' && b <= '9':
		d := int(b - '0')
		if len(t.p.curParam) == 0 {
			t.p.curParam = append(t.p.curParam, 0)
		}
		last := len(t.p.curParam) - 1
		t.p.curParam[last] = t.p.curParam[last]*10 + d
	case b == ':':
		t.p.curParam = append(t.p.curParam, 0)
	case b == ';':
		t.p.params = append(t.p.params, append([]int{}, t.p.curParam...))
		t.p.curParam = t.p.curParam[:0]
	case b == '?' || b == '>' || b == '=':
		t.p.private = b
	case b >= 0x20 && b <= 0x2f:
		t.p.intermediates = append(t.p.intermediates, b)
	case b < 0x20:
		t.handleExecute(b)
	case b >= 0x40 && b <= 0x7e:
		t.p.params = append(t.p.params, append([]int{}, t.p.curParam...))
		ev := csiEvent{
			final:         b,
			intermediates: append([]byte{}, t.p.intermediates...),
			params:        append([][]int{}, t.p.params...),
			private:       t.p.private,
		}
		t.handleCSIDispatch(ev)
		t.p.state = stateGround
	default:
		// Unexpected byte (e.g. stray DEL); abort sequence back to ground.
		t.p.state = stateGround
	}
}

func (t *Terminal) oscByte(b byte) {
	switch b {
	case 0x07:
		t.p.state = stateGround
	case 0x1b:
		t.p.state = stateEscIgnore // expect '\' to finish ST; ignore either way
	default:
		t.p.buf = append(t.p.buf, b)
	}
}

func (t *Terminal) dcsByte(b byte) {
	if b == 0x1b {
		t.p.state = stateEscIgnore
	}
	// DCS payload bytes are discarded; core has no DCS consumer.
}

func (t *Terminal) escIgnoreByte(b byte) {
	// Used to swallow the ESC \ (ST) terminator of OSC/DCS strings.
	t.p.state = stateGround
}
