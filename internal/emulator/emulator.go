package emulator

// Terminal is the VT/ANSI byte-stream emulator: it owns the cell grid,
// cursor, current SGR state, pending-replies queue, and debug buffer.
// It never fails — malformed input is recorded to the debug buffer and
// parsing resumes at ground state.
type Terminal struct {
	g   *grid
	cur cursor

	curFg, curBg Color
	curAttrs     Attrs

	lastPrint rune

	replies [][]byte
	debug   *debugBuffer

	p parser
}

// DefaultDebugCapacity bounds the number of unhandled sequences retained
// for the DEBUG verb before older entries are dropped.
const DefaultDebugCapacity = 10

// New creates a Terminal with the given dimensions and the default debug
// buffer capacity.
func New(rows, cols int) *Terminal {
	return NewWithDebugCapacity(rows, cols, DefaultDebugCapacity)
}

// NewWithDebugCapacity creates a Terminal with an explicit debug ring
// capacity. A capacity below 1 is raised to 1, so the newest entry is
// always retained.
func NewWithDebugCapacity(rows, cols, debugCapacity int) *Terminal {
	return &Terminal{
		g:     newGrid(rows, cols),
		curFg: DefaultColor,
		curBg: DefaultColor,
		debug: newDebugBuffer(debugCapacity),
	}
}

// Feed consumes a byte slice from the PTY.
func (t *Terminal) Feed(data []byte) {
	t.feed(data)
}

// Cursor returns the current (row, col), both 0-indexed.
func (t *Terminal) Cursor() (row, col int) {
	return t.cur.Row, t.cur.Col
}

// Dimensions returns (rows, cols).
func (t *Terminal) Dimensions() (rows, cols int) {
	return t.g.rows, t.g.cols
}

// DrainReplies returns and clears the pending-replies queue.
func (t *Terminal) DrainReplies() [][]byte {
	out := t.replies
	t.replies = nil
	return out
}

// DebugEntries returns a snapshot of unhandled sequences and the dropped count.
func (t *Terminal) DebugEntries() ([]UnhandledSequence, int) {
	return t.debug.snapshot()
}

// ClearDebug clears the debug buffer.
func (t *Terminal) ClearDebug() {
	t.debug.clear()
}

// Resize preserves as much content as possible (top-aligned) and clamps
// the cursor into the new rectangle.
func (t *Terminal) Resize(rows, cols int) {
	t.g.resize(rows, cols)
	t.cur.Row = clamp(t.cur.Row, 0, t.g.rows-1)
	t.cur.Col = clamp(t.cur.Col, 0, t.g.cols-1)
	t.cur.PendingWrap = false
}

func (t *Terminal) handlePrint(r rune) {
	t.lastPrint = r
	w := runeWidth(r)
	if w <= 0 {
		w = 1
	}

	if t.cur.PendingWrap {
		t.g.cells[t.cur.Row][t.g.cols-1].Attrs |= AttrWrapLine
		t.cur.PendingWrap = false
		t.cur.Col = 0
		t.advanceRow()
	}

	cell := Cell{Ch: r, Fg: t.curFg, Bg: t.curBg, Attrs: t.curAttrs}
	t.g.cells[t.cur.Row][t.cur.Col] = cell

	if w == 2 && t.cur.Col+1 < t.g.cols {
		t.g.cells[t.cur.Row][t.cur.Col+1] = Cell{Ch: ' ', Fg: t.curFg, Bg: t.curBg, Attrs: t.curAttrs | AttrWideSpacer}
	}

	if t.cur.Col+w >= t.g.cols {
		t.cur.Col = t.g.cols - 1
		t.cur.PendingWrap = true
	} else {
		t.cur.Col += w
	}
}

func (t *Terminal) advanceRow() {
	if t.cur.Row+1 >= t.g.rows {
		t.g.scrollUp()
	} else {
		t.cur.Row++
	}
}

func (t *Terminal) handleExecute(b byte) {
	switch b {
	case '\r':
		t.cur.clearPendingWrap()
		t.cur.Col = 0
	case '\n':
		t.cur.clearPendingWrap()
		t.advanceRow()
	case '\t':
		t.tabForward()
	case 0x08: // backspace
		t.cur.backspace()
	case 0x07: // BEL
		// no-op
	case 0x0e, 0x0f: // SO/SI
		// no-op, shift-in/shift-out charset switching is not emulated
	}
}

func (t *Terminal) handleEscDispatch(intermediates []byte, final byte) {
	// No required ESC-dispatch sequences beyond those expressed as CSI in
	// this emulator's table; record for operator diagnostics.
	seq := "\\e"
	for _, im := range intermediates {
		seq += string(im)
	}
	seq += string(final)
	raw := append([]byte{0x1b}, intermediates...)
	raw = append(raw, final)
	t.debug.push(seq, raw)
}

// runeWidth returns the terminal display width of r: 0 for combining
// marks, 2 for common East Asian wide ranges, 1 otherwise. This is a
// minimal table sized for this emulator's needs rather than a full
// Unicode East Asian Width implementation (see DESIGN.md).
func runeWidth(r rune) int {
	switch {
	case r == 0:
		return 0
	case r >= 0x0300 && r <= 0x036f: // combining diacritical marks
		return 0
	case r >= 0x1100 && r <= 0x115f, // Hangul Jamo
		r >= 0x2e80 && r <= 0xa4cf, // CJK radicals .. Yi
		r >= 0xac00 && r <= 0xd7a3, // Hangul syllables
		r >= 0xf900 && r <= 0xfaff, // CJK compatibility ideographs
		r >= 0xff00 && r <= 0xff60, // fullwidth forms
		r >= 0xffe0 && r <= 0xffe6,
		r >= 0x20000 && r <= 0x3fffd: // CJK extension planes
		return 2
	default:
		return 1
	}
}
