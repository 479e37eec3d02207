// Package emulator implements the VT/ANSI byte-stream state machine and
// cell grid described by the session daemon's terminal emulation
// contract: feed PTY bytes, maintain cursor and attributes, and expose
// plain and attributed renderings plus queued replies for status/cursor
// queries.
package emulator

// ColorMode selects how a Color's fields are interpreted.
type ColorMode uint8

const (
	ColorDefault ColorMode = iota
	ColorPalette           // Index holds a 0-255 palette index (0-15 basic/bright, 16-255 216-cube+grayscale)
	ColorRGB               // R, G, B hold a 24-bit true color
)

// Color is a terminal foreground/background color in one of three modes.
type Color struct {
	Mode  ColorMode
	Index uint8
	R, G, B uint8
}

// DefaultColor is the unset/terminal-default color.
var DefaultColor = Color{Mode: ColorDefault}

// Attrs is a bitmask of cell display and structural flags.
type Attrs uint16

const (
	AttrBold Attrs = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrInverse
	AttrHidden
	AttrStrikeout
	AttrWideSpacer // structural: this cell is the spacer following a wide rune
	AttrWrapLine   // structural: this row wrapped into the next row
)

// displayMask excludes the structural flags from SGR-relevant comparison.
const displayMask = AttrBold | AttrDim | AttrItalic | AttrUnderline | AttrInverse | AttrHidden | AttrStrikeout

// Display returns the subset of attrs that affects rendering, excluding
// internal bookkeeping flags like wide-char-spacer and wrap-line.
func (a Attrs) Display() Attrs {
	return a & displayMask
}

// Cell is a single grid position: a display rune, optional combining
// marks layered on it, colors, and attribute flags.
type Cell struct {
	Ch        rune
	Combining []rune
	Fg        Color
	Bg        Color
	Attrs     Attrs
}

// blankCell is the empty cell: a space with default colors and no
// attributes. Used to fill newly exposed grid regions.
var blankCell = Cell{Ch: ' ', Fg: DefaultColor, Bg: DefaultColor}
