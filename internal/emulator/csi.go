package emulator

import "fmt"

// handleCSIDispatch implements the CSI final-byte semantics table.
// Unknown finals are recorded to the debug buffer and otherwise ignored.
func (t *Terminal) handleCSIDispatch(ev csiEvent) {
	if ev.private == '?' {
		// Private-mode sequences (DECSET/DECRST etc.) are outside this
		// emulator's required table; record and move on.
		t.recordUnhandledCSI(ev)
		return
	}

	switch ev.final {
	case 'H', 'f':
		t.cur.clearPendingWrap()
		row := ev.argOrOne(0) - 1
		col := ev.argOrOne(1) - 1
		t.cur.Row = clamp(row, 0, t.g.rows-1)
		t.cur.Col = clamp(col, 0, t.g.cols-1)
	case 'A':
		t.cur.clearPendingWrap()
		t.cur.Row = clamp(t.cur.Row-ev.argOrOne(0), 0, t.g.rows-1)
	case 'B':
		t.cur.clearPendingWrap()
		t.cur.Row = clamp(t.cur.Row+ev.argOrOne(0), 0, t.g.rows-1)
	case 'C':
		t.cur.clearPendingWrap()
		t.cur.Col = clamp(t.cur.Col+ev.argOrOne(0), 0, t.g.cols-1)
	case 'D':
		t.cur.clearPendingWrap()
		t.cur.Col = clamp(t.cur.Col-ev.argOrOne(0), 0, t.g.cols-1)
	case 'G':
		t.cur.clearPendingWrap()
		t.cur.Col = clamp(ev.argOrOne(0)-1, 0, t.g.cols-1)
	case 'd':
		t.cur.clearPendingWrap()
		t.cur.Row = clamp(ev.argOrOne(0)-1, 0, t.g.rows-1)
	case 'J':
		t.eraseDisplay(ev.arg(0, 0))
	case 'K':
		t.eraseLine(ev.arg(0, 0))
	case 'L':
		t.g.insertLines(t.cur.Row, ev.argOrOne(0))
	case 'M':
		t.g.deleteLines(t.cur.Row, ev.argOrOne(0))
	case 'P':
		t.g.deleteChars(t.cur.Row, t.cur.Col, ev.argOrOne(0))
	case '@':
		t.g.insertChars(t.cur.Row, t.cur.Col, ev.argOrOne(0))
	case 'X':
		t.eraseChars(ev.argOrOne(0))
	case 'S':
		t.g.scrollUpN(ev.argOrOne(0))
	case 'T':
		t.g.scrollDownN(ev.argOrOne(0))
	case 'I':
		for i := 0; i < ev.argOrOne(0); i++ {
			t.tabForward()
		}
	case 'Z':
		for i := 0; i < ev.argOrOne(0); i++ {
			t.tabBackward()
		}
	case 'b':
		if t.lastPrint != 0 {
			for i := 0; i < ev.argOrOne(0); i++ {
				t.handlePrint(t.lastPrint)
			}
		}
	case 'm':
		t.applySGR(ev)
	case 'n':
		switch ev.arg(0, 0) {
		case 5:
			t.replies = append(t.replies, []byte("\x1b[0n"))
		case 6:
			t.replies = append(t.replies, []byte(fmt.Sprintf("\x1b[%d;%dR", t.cur.Row+1, t.cur.Col+1)))
		}
	case 'c':
		if ev.arg(0, 0) == 0 {
			t.replies = append(t.replies, []byte("\x1b[?1;2c"))
		}
	case 'g':
		// Clear Tab Stop: accepted and ignored (fixed 8-col tabs).
	default:
		t.recordUnhandledCSI(ev)
	}
}

func (t *Terminal) eraseDisplay(mode int) {
	switch mode {
	case 0:
		t.g.clearRect(t.cur.Row, t.cur.Col, t.cur.Row, t.g.cols-1)
		if t.cur.Row+1 < t.g.rows {
			t.g.clearRect(t.cur.Row+1, 0, t.g.rows-1, t.g.cols-1)
		}
	case 1:
		if t.cur.Row > 0 {
			t.g.clearRect(0, 0, t.cur.Row-1, t.g.cols-1)
		}
		t.g.clearRect(t.cur.Row, 0, t.cur.Row, t.cur.Col)
	case 2:
		t.g.clearRect(0, 0, t.g.rows-1, t.g.cols-1)
		t.cur.Row = 0
		t.cur.Col = 0
	}
}

func (t *Terminal) eraseLine(mode int) {
	switch mode {
	case 0:
		t.g.clearRect(t.cur.Row, t.cur.Col, t.cur.Row, t.g.cols-1)
	case 1:
		t.g.clearRect(t.cur.Row, 0, t.cur.Row, t.cur.Col)
	case 2:
		t.g.clearRect(t.cur.Row, 0, t.cur.Row, t.g.cols-1)
	}
}

func (t *Terminal) eraseChars(n int) {
	for i := 0; i < n; i++ {
		col := t.cur.Col + i
		if col >= t.g.cols {
			break
		}
		t.g.cells[t.cur.Row][col] = blankCell
	}
}

const tabWidth = 8

func (t *Terminal) tabForward() {
	next := ((t.cur.Col / tabWidth) + 1) * tabWidth
	if next >= t.g.cols {
		next = t.g.cols - 1
	}
	t.cur.Col = next
}

func (t *Terminal) tabBackward() {
	if t.cur.Col <= 0 {
		t.cur.Col = 0
		return
	}
	t.cur.Col = ((t.cur.Col - 1) / tabWidth) * tabWidth
}

func (t *Terminal) recordUnhandledCSI(ev csiEvent) {
	seq := "\\e["
	if ev.private != 0 {
		seq += string(ev.private)
	}
	for _, im := range ev.intermediates {
		seq += string(im)
	}
	raw := []byte{0x1b, '['}
	if ev.private != 0 {
		raw = append(raw, ev.private)
	}
	raw = append(raw, ev.intermediates...)
	for i, group := range ev.params {
		if i > 0 {
			seq += ";"
			raw = append(raw, ';')
		}
		for j, v := range group {
			if j > 0 {
				seq += ":"
				raw = append(raw, ':')
			}
			s := fmt.Sprintf("%d", v)
			seq += s
			raw = append(raw, s...)
		}
	}
	seq += string(ev.final)
	raw = append(raw, ev.final)
	t.debug.push(seq, raw)
}
