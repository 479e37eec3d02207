package emulator

// applySGR updates t.curFg/t.curBg/t.curAttrs from a CSI 'm' event's
// params, per the standard color and style codes (8/16/256/24-bit).
func (t *Terminal) applySGR(ev csiEvent) {
	if len(ev.params) == 0 {
		t.resetSGR()
		return
	}
	for i := 0; i < len(ev.params); i++ {
		code := 0
		if len(ev.params[i]) > 0 {
			code = ev.params[i][0]
		}
		switch {
		case code == 0:
			t.resetSGR()
		case code == 1:
			t.curAttrs |= AttrBold
		case code == 2:
			t.curAttrs |= AttrDim
		case code == 3:
			t.curAttrs |= AttrItalic
		case code == 4:
			t.curAttrs |= AttrUnderline
		case code == 7:
			t.curAttrs |= AttrInverse
		case code == 8:
			t.curAttrs |= AttrHidden
		case code == 9:
			t.curAttrs |= AttrStrikeout
		case code == 21 || code == 22:
			t.curAttrs &^= AttrBold | AttrDim
		case code == 23:
			t.curAttrs &^= AttrItalic
		case code == 24:
			t.curAttrs &^= AttrUnderline
		case code == 27:
			t.curAttrs &^= AttrInverse
		case code == 28:
			t.curAttrs &^= AttrHidden
		case code == 29:
			t.curAttrs &^= AttrStrikeout
		case code >= 30 && code <= 37:
			t.curFg = Color{Mode: ColorPalette, Index: uint8(code - 30)}
		case code == 38:
			c, consumed := t.parseExtendedColor(ev.params[i:])
			t.curFg = c
			i += consumed
		case code == 39:
			t.curFg = DefaultColor
		case code >= 40 && code <= 47:
			t.curBg = Color{Mode: ColorPalette, Index: uint8(code - 40)}
		case code == 48:
			c, consumed := t.parseExtendedColor(ev.params[i:])
			t.curBg = c
			i += consumed
		case code == 49:
			t.curBg = DefaultColor
		case code >= 90 && code <= 97:
			t.curFg = Color{Mode: ColorPalette, Index: uint8(code - 90 + 8)}
		case code >= 100 && code <= 107:
			t.curBg = Color{Mode: ColorPalette, Index: uint8(code - 100 + 8)}
		}
	}
}

// parseExtendedColor handles the 38/48 ";5;N" (256-color) and
// ";2;R;G;B" (24-bit) forms, both semicolon- and colon-separated.
// Returns the color and how many extra top-level params it consumed.
func (t *Terminal) parseExtendedColor(params [][]int) (Color, int) {
	// Colon-subparam form: 38:5:N or 38:2:R:G:B all in one param group.
	if len(params) > 0 && len(params[0]) > 1 {
		sub := params[0]
		switch sub[1] {
		case 5:
			if len(sub) > 2 {
				return Color{Mode: ColorPalette, Index: uint8(sub[2])}, 0
			}
		case 2:
			if len(sub) > 4 {
				return Color{Mode: ColorRGB, R: uint8(sub[2]), G: uint8(sub[3]), B: uint8(sub[4])}, 0
			}
		}
		return DefaultColor, 0
	}
	// Semicolon-separated form spread across successive top-level params.
	if len(params) < 2 {
		return DefaultColor, 0
	}
	mode := first(params[1])
	switch mode {
	case 5:
		if len(params) >= 3 {
			return Color{Mode: ColorPalette, Index: uint8(first(params[2]))}, 2
		}
	case 2:
		if len(params) >= 5 {
			return Color{
				Mode: ColorRGB,
				R:    uint8(first(params[2])),
				G:    uint8(first(params[3])),
				B:    uint8(first(params[4])),
			}, 4
		}
	}
	return DefaultColor, len(params) - 1
}

func first(p []int) int {
	if len(p) == 0 {
		return 0
	}
	return p[0]
}

func (t *Terminal) resetSGR() {
	t.curFg = DefaultColor
	t.curBg = DefaultColor
	t.curAttrs = 0
}
