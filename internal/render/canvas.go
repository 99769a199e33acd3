package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas is a grid of styled cells drawn off screen and blitted in one go
type Canvas struct {
	width  int
	height int
	cells  []Cell // row-major
}

// Cell is one character cell. A zero Char marks the second column of a
// wide rune.
type Cell struct {
	Char  rune
	Style tcell.Style
}

var blank = Cell{Char: ' ', Style: tcell.StyleDefault}

// NewCanvas creates a blank canvas. Negative sizes give an empty one.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	c.Fill(tcell.StyleDefault)
	return c
}

func (c *Canvas) index(x, y int) (int, bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0, false
	}
	return y*c.width + x, true
}

// Set writes a glyph and style; positions off the canvas are ignored
func (c *Canvas) Set(x, y int, char rune, style tcell.Style) {
	if i, ok := c.index(x, y); ok {
		c.cells[i] = Cell{Char: char, Style: style}
	}
}

// SetForeground redraws a cell with a new glyph and foreground colour but
// keeps whatever background is already there
func (c *Canvas) SetForeground(x, y int, char rune, fg tcell.Style) {
	i, ok := c.index(x, y)
	if !ok {
		return
	}
	_, bg, _ := c.cells[i].Style.Decompose()
	c.cells[i] = Cell{Char: char, Style: fg.Background(bg)}
}

// Get returns the cell at a position, or a blank cell off the canvas
func (c *Canvas) Get(x, y int) Cell {
	if i, ok := c.index(x, y); ok {
		return c.cells[i]
	}
	return blank
}

// Fill resets every cell to a space in the given style
func (c *Canvas) Fill(style tcell.Style) {
	for i := range c.cells {
		c.cells[i] = Cell{Char: ' ', Style: style}
	}
}

// DrawText draws a string at the given position, advancing by each rune's
// display width, and returns the number of columns used
func (c *Canvas) DrawText(x, y int, text string, style tcell.Style) int {
	col := x
	for _, char := range text {
		w := runewidth.RuneWidth(char)
		if w == 0 {
			continue
		}
		c.Set(col, y, char, style)
		for i := 1; i < w; i++ {
			// Wide runes occupy the following cell too
			c.Set(col+i, y, 0, style)
		}
		col += w
	}
	return col - x
}

// DrawTextWidth draws text truncated to at most width columns
func (c *Canvas) DrawTextWidth(x, y, width int, text string, style tcell.Style) {
	c.DrawText(x, y, runewidth.Truncate(text, width, "…"), style)
}

// DrawTextCentered draws text centred within [x, x+width)
func (c *Canvas) DrawTextCentered(x, y, width int, text string, style tcell.Style) {
	text = runewidth.Truncate(text, width, "…")
	pad := (width - runewidth.StringWidth(text)) / 2
	c.DrawText(x+pad, y, text, style)
}

// DrawBox outlines a rectangle with rounded corners
func (c *Canvas) DrawBox(x, y, width, height int, style tcell.Style) {
	if width < 2 || height < 2 {
		return
	}

	right, bottom := x+width-1, y+height-1
	c.FillRect(x+1, y, width-2, 1, '─', style)
	c.FillRect(x+1, bottom, width-2, 1, '─', style)
	c.FillRect(x, y+1, 1, height-2, '│', style)
	c.FillRect(right, y+1, 1, height-2, '│', style)

	c.Set(x, y, '╭', style)
	c.Set(right, y, '╮', style)
	c.Set(x, bottom, '╰', style)
	c.Set(right, bottom, '╯', style)
}

// FillRect fills a rectangle with one glyph
func (c *Canvas) FillRect(x, y, width, height int, char rune, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			c.Set(col, row, char, style)
		}
	}
}

// Width returns the canvas width in cells
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in cells
func (c *Canvas) Height() int {
	return c.height
}

// Blit copies the canvas onto a screen at an offset. Placeholder cells
// behind wide runes are skipped so the terminal keeps the wide glyph.
func (c *Canvas) Blit(screen tcell.Screen, offsetX, offsetY int) {
	for i, cell := range c.cells {
		if cell.Char == 0 {
			continue
		}
		screen.SetContent(offsetX+i%c.width, offsetY+i/c.width, cell.Char, nil, cell.Style)
	}
}
