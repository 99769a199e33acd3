package ui

import (
	"github.com/gdamore/tcell/v2"

	"globequiz/internal/facts"
	"globequiz/internal/geo"
	"globequiz/internal/render"
)

// FactsView shows facts about the country revealed by the last guess
type FactsView struct {
	x      int
	y      int
	width  int
	height int

	round   int
	country *geo.Country
	facts   *facts.Facts
	loading bool
	err     error
}

// NewFactsView creates a new facts panel
func NewFactsView(x, y, width, height int) *FactsView {
	return &FactsView{
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

// SetLoading shows a placeholder while facts for country are fetched
func (f *FactsView) SetLoading(round int, country *geo.Country) {
	f.round = round
	f.country = country
	f.facts = nil
	f.err = nil
	f.loading = true
}

// SetFacts shows fetched facts
func (f *FactsView) SetFacts(round int, country *geo.Country, fs *facts.Facts) {
	f.round = round
	f.country = country
	f.facts = fs
	f.err = nil
	f.loading = false
}

// SetError shows that the lookup failed
func (f *FactsView) SetError(round int, country *geo.Country, err error) {
	f.round = round
	f.country = country
	f.facts = nil
	f.err = err
	f.loading = false
}

// Clear empties the panel
func (f *FactsView) Clear() {
	f.country = nil
	f.facts = nil
	f.err = nil
	f.loading = false
}

// Country returns the country being shown, or nil
func (f *FactsView) Country() *geo.Country {
	return f.country
}

// Facts returns the facts being shown, or nil
func (f *FactsView) Facts() *facts.Facts {
	return f.facts
}

// Draw renders the panel to the screen
func (f *FactsView) Draw(screen tcell.Screen) {
	if f.width < 4 || f.height < 3 {
		return
	}

	c := render.NewCanvas(f.width, f.height)
	c.Fill(tcell.StyleDefault)
	c.DrawBox(0, 0, f.width, f.height, render.StylePanelBox)

	if f.country == nil {
		c.DrawTextCentered(1, f.height/2, f.width-2, "Guess a country", render.StyleDim)
		c.Blit(screen, f.x, f.y)
		return
	}

	title := f.country.Name
	if f.facts != nil {
		title = f.facts.Title()
	}
	c.DrawTextCentered(1, 0, f.width-2, " "+title+" ", render.StyleTitle)

	var lines []string
	switch {
	case f.loading:
		lines = []string{"Loading…"}
	case f.err != nil:
		lines = []string{"Error loading country data"}
	case f.facts != nil:
		lines = f.facts.Lines()
	}

	for i, text := range lines {
		y := 2 + i
		if y >= f.height-1 {
			break
		}
		c.DrawTextWidth(2, y, f.width-4, text, render.StyleLabel)
	}

	c.Blit(screen, f.x, f.y)
}

// UpdateDimensions updates the view dimensions
func (f *FactsView) UpdateDimensions(x, y, width, height int) {
	f.x = x
	f.y = y
	f.width = width
	f.height = height
}
