package cmd

import (
	"fmt"
	"strings"
)

// applyCursorOverlay implements the cosmetic --cursor client-side
// transformations over an OUTPUT screen string. row/col are 0-indexed as
// returned on the wire; the print mode reports them 1-indexed.
func applyCursorOverlay(mode, screen string, row, col int) string {
	switch mode {
	case "inverse":
		return invertCursorCell(screen, row, col)
	case "print":
		return fmt.Sprintf("Cursor: row %d, col %d\n%s", row+1, col+1, screen)
	case "both":
		return fmt.Sprintf("Cursor: row %d, col %d\n%s", row+1, col+1, invertCursorCell(screen, row, col))
	default:
		return screen
	}
}

func invertCursorCell(screen string, row, col int) string {
	lines := strings.Split(screen, "\n")
	if row < 0 || row >= len(lines) {
		return screen
	}
	line := lines[row]
	cells := []rune(line)
	if col < 0 || col >= len(cells) {
		return screen
	}
	lines[row] = string(cells[:col]) + "\x1b[7m" + string(cells[col]) + "\x1b[27m" + string(cells[col+1:])
	return strings.Join(lines, "\n")
}
