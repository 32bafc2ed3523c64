package asciidag

import (
	"strings"

	"github.com/dagview/asciidag/token"
)

// Canvas is a mutable rectangular grid of characters addressed by 1-based (line, column)
// [token.Position] coordinates. It is the drawing surface edges and labels are painted onto
// while rendering.
type Canvas struct {
	rows   [][]rune
	height int
	width  int
}

// NewCanvas returns a height x width canvas filled with fill.
func NewCanvas(height, width int, fill rune) *Canvas {
	rows := make([][]rune, height)
	for i := range rows {
		row := make([]rune, width)
		for j := range row {
			row[j] = fill
		}
		rows[i] = row
	}
	return &Canvas{rows: rows, height: height, width: width}
}

// CanvasFromString builds a canvas whose rows are the lines of s, right-padded with spaces to
// the width of the longest line. A single leading newline, if present, is skipped so that raw
// Go string literals of the form "\nline1\nline2\n" read naturally.
func CanvasFromString(s string) *Canvas {
	s = strings.TrimPrefix(s, "\n")
	lines := strings.Split(s, "\n")
	// A trailing newline produces a spurious empty final line; drop it like the renderer's own
	// output would never include it.
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	width := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	c := NewCanvas(len(lines), width, ' ')
	for i, l := range lines {
		for j, r := range []rune(l) {
			c.rows[i][j] = r
		}
	}
	return c
}

// Height returns the number of rows.
func (c *Canvas) Height() int { return c.height }

// Width returns the number of columns.
func (c *Canvas) Width() int { return c.width }

// Get returns the character at pos. Reading outside the grid returns a space.
func (c *Canvas) Get(pos token.Position) rune {
	line, col := pos.Line-1, pos.Column-1
	if line < 0 || line >= c.height || col < 0 || col >= c.width {
		return ' '
	}
	return c.rows[line][col]
}

// InBounds reports whether pos addresses a cell of the canvas.
func (c *Canvas) InBounds(pos token.Position) bool {
	line, col := pos.Line-1, pos.Column-1
	return line >= 0 && line < c.height && col >= 0 && col < c.width
}

// Set writes ch at pos. It reports false without modifying the canvas if pos is outside the
// grid, or if the existing cell is a non-space character different from ch — a collision —
// unless the caller is writing 'X' onto an existing diagonal, which the router uses to record a
// crossing.
func (c *Canvas) Set(pos token.Position, ch rune) bool {
	if !c.InBounds(pos) {
		return false
	}
	line, col := pos.Line-1, pos.Column-1
	existing := c.rows[line][col]
	if existing != ' ' && existing != ch {
		if !(ch == 'X' && (existing == '/' || existing == '\\')) {
			return false
		}
	}
	c.rows[line][col] = ch
	return true
}

// Clear writes a space at pos.
func (c *Canvas) Clear(pos token.Position) {
	if !c.InBounds(pos) {
		return
	}
	c.rows[pos.Line-1][pos.Column-1] = ' '
}

// Render concatenates the rows with "\n", trimming trailing spaces off each row.
func (c *Canvas) Render() string {
	var sb strings.Builder
	for i, row := range c.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strings.TrimRight(string(row), " "))
	}
	return sb.String()
}
