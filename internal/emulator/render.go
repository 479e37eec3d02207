package emulator

import (
	"strconv"
	"strings"
)

// RenderPlain returns the grid as newline-separated lines, each
// right-trimmed of trailing spaces. Wide-char spacer cells are skipped.
func (t *Terminal) RenderPlain() string {
	var b strings.Builder
	for r := 0; r < t.g.rows; r++ {
		line := t.plainLine(r)
		b.WriteString(strings.TrimRight(line, " "))
		if r < t.g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (t *Terminal) plainLine(r int) string {
	var b strings.Builder
	for _, c := range t.g.row(r) {
		if c.Attrs&AttrWideSpacer != 0 {
			continue
		}
		b.WriteRune(c.Ch)
		for _, cm := range c.Combining {
			b.WriteRune(cm)
		}
	}
	return b.String()
}

type sgrState struct {
	fg, bg Color
	attrs  Attrs
	set    bool // whether this state has ever been emitted (vs. initial "nothing yet")
}

func (s sgrState) equal(o sgrState) bool {
	return s.fg == o.fg && s.bg == o.bg && s.attrs.Display() == o.attrs.Display()
}

// RenderAttributed returns the same lines as RenderPlain with minimal SGR
// escapes inserted so the sequence, re-rendered on any VT, reproduces the
// visible attributes.
func (t *Terminal) RenderAttributed() string {
	var b strings.Builder
	for r := 0; r < t.g.rows; r++ {
		b.WriteString(t.attributedLine(r))
		if r < t.g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (t *Terminal) attributedLine(r int) string {
	row := t.g.row(r)

	lastNonBlank := -1
	for i, c := range row {
		if c.Attrs&AttrWideSpacer != 0 {
			continue
		}
		if !isPlainBlank(c) {
			lastNonBlank = i
		}
	}
	if lastNonBlank < 0 {
		return ""
	}

	var b strings.Builder
	cur := sgrState{fg: DefaultColor, bg: DefaultColor}
	everActive := false

	for i := 0; i <= lastNonBlank; i++ {
		c := row[i]
		if c.Attrs&AttrWideSpacer != 0 {
			continue
		}
		want := sgrState{fg: c.Fg, bg: c.Bg, attrs: c.Attrs}
		if !cur.equal(want) {
			b.WriteString(sgrPrefix(c.Fg, c.Bg, c.Attrs))
			cur = want
		}
		if !isDefaultState(want) {
			everActive = true
		}
		b.WriteRune(c.Ch)
		for _, cm := range c.Combining {
			b.WriteRune(cm)
		}
	}
	if everActive && !isDefaultState(cur) {
		b.WriteString("\x1b[0m")
	}
	return b.String()
}

func isPlainBlank(c Cell) bool {
	return c.Ch == ' ' && len(c.Combining) == 0 && isDefaultState(sgrState{fg: c.Fg, bg: c.Bg, attrs: c.Attrs})
}

func isDefaultState(s sgrState) bool {
	return s.fg == DefaultColor && s.bg == DefaultColor && s.attrs.Display() == 0
}

// sgrPrefix builds the full "\x1b[...m" sequence for a cell's state,
// always resetting first so the escape is correct regardless of the
// consuming VT's prior state.
func sgrPrefix(fg, bg Color, attrs Attrs) string {
	codes := []string{"0"}
	d := attrs.Display()
	if d&AttrBold != 0 {
		codes = append(codes, "1")
	}
	if d&AttrDim != 0 {
		codes = append(codes, "2")
	}
	if d&AttrItalic != 0 {
		codes = append(codes, "3")
	}
	if d&AttrUnderline != 0 {
		codes = append(codes, "4")
	}
	if d&AttrInverse != 0 {
		codes = append(codes, "7")
	}
	if d&AttrHidden != 0 {
		codes = append(codes, "8")
	}
	if d&AttrStrikeout != 0 {
		codes = append(codes, "9")
	}
	codes = append(codes, colorCodes(fg, 30, 38)...)
	codes = append(codes, colorCodes(bg, 40, 48)...)
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func colorCodes(c Color, baseOffset, extOffset int) []string {
	switch c.Mode {
	case ColorPalette:
		if c.Index < 8 {
			return []string{strconv.Itoa(baseOffset + int(c.Index))}
		}
		if c.Index < 16 {
			// Bright 8-15: use the 90/100 range derived from base offsets.
			return []string{strconv.Itoa(baseOffset + 60 + int(c.Index) - 8)}
		}
		return []string{strconv.Itoa(extOffset), "5", strconv.Itoa(int(c.Index))}
	case ColorRGB:
		return []string{strconv.Itoa(extOffset), "2", strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B))}
	default:
		return nil
	}
}
