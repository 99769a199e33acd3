package render

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"globequiz/internal/debug"
	"globequiz/internal/geo"
	"globequiz/internal/globe"
)

// GlobeRenderer draws a frame of globe draw commands onto a canvas.
// One cell covers CellWidth x CellHeight virtual pixels.
type GlobeRenderer struct {
	canvas     *Canvas
	cellWidth  float64
	cellHeight float64
}

// NewGlobeRenderer creates a renderer for the given canvas and cell size
func NewGlobeRenderer(canvas *Canvas, cellWidth, cellHeight float64) *GlobeRenderer {
	return &GlobeRenderer{
		canvas:     canvas,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
	}
}

// cell converts virtual pixels to a cell position
func (g *GlobeRenderer) cell(pt geo.ScreenPoint) (int, int) {
	return int(math.Floor(pt.X / g.cellWidth)), int(math.Floor(pt.Y / g.cellHeight))
}

// pixel returns the virtual pixel at the centre of a cell
func (g *GlobeRenderer) pixel(x, y int) geo.ScreenPoint {
	return geo.ScreenPoint{
		X: (float64(x) + 0.5) * g.cellWidth,
		Y: (float64(y) + 0.5) * g.cellHeight,
	}
}

// Render draws every command in order. Hidden vertices and stars are
// skipped, never treated as errors.
func (g *GlobeRenderer) Render(cmds []globe.DrawCommand) {
	g.canvas.Fill(StyleSpace)

	var sphere *globe.DrawCommand
	var countries []globe.DrawCommand

	for i := range cmds {
		switch cmds[i].Kind {
		case globe.DrawStar:
			g.renderStar(cmds[i].Star)
		case globe.DrawSphere:
			sphere = &cmds[i]
		case globe.DrawCountry:
			countries = append(countries, cmds[i])
		}
	}

	if sphere != nil {
		g.renderSurface(*sphere, countries)
	}

	drawn := 0
	for _, cmd := range countries {
		if cmd.Borders {
			drawn += g.renderBorders(cmd)
		}
	}

	for _, cmd := range cmds {
		switch cmd.Kind {
		case globe.DrawTravelLine:
			g.renderPath(cmd.Points, '•', StyleTravel)
		case globe.DrawMarker:
			if len(cmd.Points) > 0 && cmd.Points[0].Visible {
				x, y := g.cell(cmd.Center)
				g.canvas.SetForeground(x, y, '✕', StyleMarker)
			}
		}
	}

	if debug.Enabled() {
		debug.Log("Rendered %d commands, %d border segments", len(cmds), drawn)
	}
}

func (g *GlobeRenderer) renderStar(s globe.ProjectedStar) {
	if !s.Visible {
		return
	}
	x, y := g.cell(geo.ScreenPoint{X: s.DX, Y: s.DY})
	g.canvas.Set(x, y, StarChar(s.Size), StarStyle(s.Opacity))
}

// renderSurface shades every cell inside the disc: ocean by default, land
// where the inverse projection falls inside a country
func (g *GlobeRenderer) renderSurface(sphere globe.DrawCommand, countries []globe.DrawCommand) {
	if sphere.Projection == nil {
		return
	}

	world := make([]*geo.Country, 0, len(countries))
	highlight := make(map[*geo.Country]string)
	for _, cmd := range countries {
		world = append(world, cmd.Country)
		if cmd.Highlight != "" {
			highlight[cmd.Country] = cmd.Highlight
		}
	}

	r := sphere.Radius
	x0, y0 := g.cell(geo.ScreenPoint{X: sphere.Center.X - r, Y: sphere.Center.Y - r})
	x1, y1 := g.cell(geo.ScreenPoint{X: sphere.Center.X + r, Y: sphere.Center.Y + r})

	for y := max(y0, 0); y <= min(y1, g.canvas.Height()-1); y++ {
		for x := max(x0, 0); x <= min(x1, g.canvas.Width()-1); x++ {
			ll, ok := sphere.Projection.Invert(g.pixel(x, y))
			if !ok {
				continue
			}

			c := geo.Locate(world, ll)
			switch {
			case c == nil:
				g.canvas.Set(x, y, ' ', StyleOcean)
			case highlight[c] != "":
				g.canvas.Set(x, y, ' ', highlightStyle(highlight[c]))
			default:
				g.canvas.Set(x, y, ' ', StyleLand)
			}
		}
	}
}

func (g *GlobeRenderer) renderBorders(cmd globe.DrawCommand) int {
	n := 0
	for _, ring := range cmd.Rings {
		n += g.renderPath(ring, '·', StyleBorder)
	}
	return n
}

// renderPath draws straight segments between consecutive visible vertices
// and returns how many it drew
func (g *GlobeRenderer) renderPath(vs []globe.Vertex, char rune, style tcell.Style) int {
	n := 0
	for i := 0; i+1 < len(vs); i++ {
		a, b := vs[i], vs[i+1]
		if !a.Visible || !b.Visible {
			continue
		}
		ax, ay := g.cell(a.ScreenPoint)
		bx, by := g.cell(b.ScreenPoint)
		g.DrawLine(ax, ay, bx, by, char, style)
		n++
	}
	return n
}

// DrawLine implements Bresenham's line algorithm. Only the glyph and
// foreground are written so lines keep the land or ocean shading beneath.
func (g *GlobeRenderer) DrawLine(x0, y0, x1, y1 int, char rune, style tcell.Style) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)

	sx := -1
	if x0 < x1 {
		sx = 1
	}

	sy := -1
	if y0 < y1 {
		sy = 1
	}

	err := dx - dy

	for {
		g.canvas.SetForeground(x0, y0, char, style)

		if x0 == x1 && y0 == y1 {
			break
		}

		e2 := 2 * err

		if e2 > -dy {
			err -= dy
			x0 += sx
		}

		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// UpdateCanvas updates the renderer's canvas
func (g *GlobeRenderer) UpdateCanvas(canvas *Canvas) {
	g.canvas = canvas
}
