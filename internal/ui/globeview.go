package ui

import (
	"github.com/gdamore/tcell/v2"

	"globequiz/internal/geo"
	"globequiz/internal/globe"
	"globequiz/internal/render"
)

// GlobeView displays the globe and the star field behind it
type GlobeView struct {
	renderer   *render.GlobeRenderer
	canvas     *render.Canvas
	width      int
	height     int
	cellWidth  float64
	cellHeight float64
	stars      []globe.Star
	starOpts   globe.StarOptions
}

// NewGlobeView creates a globe view of width x height cells. A cell covers
// cellWidth x cellWidth*aspectRatio virtual pixels.
func NewGlobeView(width, height int, cellWidth, aspectRatio float64) *GlobeView {
	canvas := render.NewCanvas(width, height)
	cellHeight := cellWidth * aspectRatio

	return &GlobeView{
		renderer:   render.NewGlobeRenderer(canvas, cellWidth, cellHeight),
		canvas:     canvas,
		width:      width,
		height:     height,
		cellWidth:  cellWidth,
		cellHeight: cellHeight,
	}
}

// SetStars installs the star field drawn behind the globe
func (v *GlobeView) SetStars(stars []globe.Star, opts globe.StarOptions) {
	v.stars = stars
	v.starOpts = opts
}

// Draw renders a frame to the screen. The frame's stars are taken from
// the view.
func (v *GlobeView) Draw(screen tcell.Screen, in globe.FrameInput) {
	in.Stars = v.stars
	in.StarOptions = v.starOpts

	v.renderer.Render(globe.BuildFrame(in))
	v.canvas.Blit(screen, 0, 0)
}

// PixelSize returns the view size in virtual pixels
func (v *GlobeView) PixelSize() (float64, float64) {
	return float64(v.width) * v.cellWidth, float64(v.height) * v.cellHeight
}

// Pixel returns the virtual pixel at the centre of a cell
func (v *GlobeView) Pixel(x, y int) geo.ScreenPoint {
	return geo.ScreenPoint{
		X: (float64(x) + 0.5) * v.cellWidth,
		Y: (float64(y) + 0.5) * v.cellHeight,
	}
}

// CellSize returns the size of one cell in virtual pixels
func (v *GlobeView) CellSize() (float64, float64) {
	return v.cellWidth, v.cellHeight
}

// Contains reports whether a screen cell belongs to the view
func (v *GlobeView) Contains(x, y int) bool {
	return x >= 0 && x < v.width && y >= 0 && y < v.height
}

// UpdateDimensions updates the view dimensions when the screen is resized
func (v *GlobeView) UpdateDimensions(width, height int) {
	v.width = width
	v.height = height
	v.canvas = render.NewCanvas(width, height)
	v.renderer.UpdateCanvas(v.canvas)
}
