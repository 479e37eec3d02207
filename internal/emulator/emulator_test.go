package emulator

import (
	"strings"
	"testing"
)

func TestDeterminism(t *testing.T) {
	input := []byte("hello\r\n\x1b[31mworld\x1b[0m\x1b[2;5H!")
	t1 := New(5, 20)
	t1.Feed(input)
	t2 := New(5, 20)
	t2.Feed(input)

	if t1.RenderPlain() != t2.RenderPlain() {
		t.Fatalf("plain render differs between identical runs")
	}
	if t1.RenderAttributed() != t2.RenderAttributed() {
		t.Fatalf("attributed render differs between identical runs")
	}
	r1, c1 := t1.Cursor()
	r2, c2 := t2.Cursor()
	if r1 != r2 || c1 != c2 {
		t.Fatalf("cursor differs: (%d,%d) vs (%d,%d)", r1, c1, r2, c2)
	}
}

func TestDimensionInvariantAfterResize(t *testing.T) {
	term := New(5, 10)
	term.Resize(10, 40)
	rows, cols := term.Dimensions()
	if rows != 10 || cols != 40 {
		t.Fatalf("got (%d,%d), want (10,40)", rows, cols)
	}
	term.Feed([]byte(strings.Repeat("x", 50)))
	for _, line := range strings.Split(term.RenderPlain(), "\n") {
		if len([]rune(line)) > 40 {
			t.Fatalf("line exceeds cols: %q", line)
		}
	}
}

func TestDelayedWrap(t *testing.T) {
	term := New(5, 10)
	term.Feed([]byte("ABCDEFGHIJ"))
	row, col := term.Cursor()
	if row != 0 || col != 9 {
		t.Fatalf("expected cursor (0,9) after filling row, got (%d,%d)", row, col)
	}
	term.Feed([]byte("K"))
	row, col = term.Cursor()
	if row != 1 || col != 1 {
		t.Fatalf("expected cursor (1,1) after wrap print, got (%d,%d)", row, col)
	}
	lines := strings.Split(term.RenderPlain(), "\n")
	if lines[0] != "ABCDEFGHIJ" {
		t.Fatalf("row 0 = %q, want ABCDEFGHIJ", lines[0])
	}
	if !strings.HasPrefix(lines[1], "K") {
		t.Fatalf("row 1 = %q, want prefix K", lines[1])
	}
}

func TestCursorMoveCancelsPendingWrap(t *testing.T) {
	term := New(5, 10)
	term.Feed([]byte("ABCDEFGHIJ"))
	term.Feed([]byte("\x1b[1;1H")) // CUP clears pending wrap
	term.Feed([]byte("Z"))
	lines := strings.Split(term.RenderPlain(), "\n")
	if lines[0] != "ZBCDEFGHIJ" {
		t.Fatalf("row 0 = %q, want ZBCDEFGHIJ", lines[0])
	}
}

func TestBackspaceAtRightMargin(t *testing.T) {
	term := New(5, 10)
	term.Feed([]byte("ABCDEFGHIJ"))
	term.Feed([]byte("\bX"))
	lines := strings.Split(term.RenderPlain(), "\n")
	if lines[0] != "ABCDEFGHIX" {
		t.Fatalf("row 0 = %q, want ABCDEFGHIX", lines[0])
	}
}

func TestDSR6ReportsOneIndexedCursor(t *testing.T) {
	term := New(24, 80)
	term.Feed([]byte("\x1b[5;10H\x1b[6n"))
	replies := term.DrainReplies()
	if len(replies) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(replies))
	}
	if string(replies[0]) != "\x1b[5;10R" {
		t.Fatalf("got %q, want \\x1b[5;10R", replies[0])
	}
}

func TestDeviceStatusReport5(t *testing.T) {
	term := New(5, 10)
	term.Feed([]byte("\x1b[5n"))
	replies := term.DrainReplies()
	if len(replies) != 1 || string(replies[0]) != "\x1b[0n" {
		t.Fatalf("got %v", replies)
	}
}

func TestPrimaryDeviceAttributes(t *testing.T) {
	term := New(5, 10)
	term.Feed([]byte("\x1b[c"))
	replies := term.DrainReplies()
	if len(replies) != 1 || string(replies[0]) != "\x1b[?1;2c" {
		t.Fatalf("got %v", replies)
	}
}

func TestUnknownCSIGoesToDebugBuffer(t *testing.T) {
	term := New(5, 10)
	term.Feed([]byte("\x1b[99y"))
	entries, dropped := term.DebugEntries()
	if dropped != 0 {
		t.Fatalf("unexpected drops: %d", dropped)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 unhandled entry, got %d", len(entries))
	}
	if entries[0].Sequence != "\\e[99y" {
		t.Fatalf("got %q", entries[0].Sequence)
	}
}

func TestDebugBufferDropsOverCapacity(t *testing.T) {
	term := NewWithDebugCapacity(5, 10, 2)
	for i := 0; i < 5; i++ {
		term.Feed([]byte("\x1b[99y"))
	}
	entries, dropped := term.DebugEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 retained entries, got %d", len(entries))
	}
	if dropped != 3 {
		t.Fatalf("expected 3 dropped, got %d", dropped)
	}
}

func TestSGRRoundTrip(t *testing.T) {
	src := New(3, 20)
	src.Feed([]byte("plain \x1b[1;31mbold red\x1b[0m plain"))
	attributed := src.RenderAttributed()

	dst := New(3, 20)
	dst.Feed([]byte(attributed))

	if dst.RenderPlain() != src.RenderPlain() {
		t.Fatalf("round trip plain mismatch:\nsrc=%q\ndst=%q", src.RenderPlain(), dst.RenderPlain())
	}
}

func TestEraseDisplayModes(t *testing.T) {
	term := New(3, 5)
	term.Feed([]byte("AAAAA\r\nBBBBB\r\nCCCCC"))
	term.Feed([]byte("\x1b[2;3H\x1b[0J"))
	lines := strings.Split(term.RenderPlain(), "\n")
	if lines[0] != "AAAAA" {
		t.Fatalf("row0 altered: %q", lines[0])
	}
	if lines[1] != "BB" {
		t.Fatalf("row1 = %q, want BB", lines[1])
	}
	if lines[2] != "" {
		t.Fatalf("row2 = %q, want empty", lines[2])
	}
}

func TestScrollOnOverflow(t *testing.T) {
	term := New(2, 5)
	term.Feed([]byte("AAAAA\r\nBBBBB\r\nCCCCC"))
	lines := strings.Split(term.RenderPlain(), "\n")
	if lines[0] != "BBBBB" || lines[1] != "CCCCC" {
		t.Fatalf("got %v", lines)
	}
}

func TestRepeatCSIb(t *testing.T) {
	term := New(3, 10)
	term.Feed([]byte("A\x1b[3b"))
	lines := strings.Split(term.RenderPlain(), "\n")
	if lines[0] != "AAAA" {
		t.Fatalf("got %q, want AAAA", lines[0])
	}
}

func TestForwardBackTab(t *testing.T) {
	term := New(3, 40)
	term.Feed([]byte("\x1b[I"))
	_, col := term.Cursor()
	if col != 8 {
		t.Fatalf("CHT got col %d, want 8", col)
	}
	term.Feed([]byte("\x1b[Z"))
	_, col = term.Cursor()
	if col != 0 {
		t.Fatalf("CBT got col %d, want 0", col)
	}
}
