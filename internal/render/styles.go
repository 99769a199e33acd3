package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette in hex so it reads like the stylesheet it mirrors
const (
	hexSpace     = "#05070f"
	hexOcean     = "#0b3d6b"
	hexLand      = "#2e7d32"
	hexBorder    = "#a5d6a7"
	hexCorrect   = "#2ecc71"
	hexClose     = "#f1c40f"
	hexSomewhat  = "#e67e22"
	hexWrong     = "#e74c3c"
	hexTravel    = "#ffd54f"
	hexMarker    = "#ff1744"
	hexStarDim   = "#3a3f5c"
	hexStarLight = "#ffffff"
)

// Style definitions for the globe and the panels
var (
	StyleSpace    = tcell.StyleDefault.Background(hexColor(hexSpace))
	StyleOcean    = tcell.StyleDefault.Background(hexColor(hexOcean)).Foreground(hexColor(hexOcean))
	StyleLand     = tcell.StyleDefault.Background(hexColor(hexLand)).Foreground(hexColor(hexLand))
	StyleBorder   = tcell.StyleDefault.Background(hexColor(hexLand)).Foreground(hexColor(hexBorder))
	StyleTravel   = tcell.StyleDefault.Foreground(hexColor(hexTravel)).Bold(true)
	StyleMarker   = tcell.StyleDefault.Foreground(hexColor(hexMarker)).Bold(true)
	StyleLabel    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	StyleTitle    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	StyleDim      = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	StylePanelBox = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
)

// hexColor converts a hex string to a terminal colour. Bad input is a
// programming error in the palette above.
func hexColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return toTcell(c)
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// tierHex maps a result class to its colour
var tierHex = map[string]string{
	"correct":        hexCorrect,
	"close":          hexClose,
	"somewhat-close": hexSomewhat,
	"wrong":          hexWrong,
}

// TierColor returns the colour of a result class, or the land colour for
// an unknown class
func TierColor(class string) tcell.Color {
	hex, ok := tierHex[class]
	if !ok {
		hex = hexLand
	}
	return hexColor(hex)
}

// StyleForTier is the text style used to announce a result
func StyleForTier(class string) tcell.Style {
	return tcell.StyleDefault.Foreground(TierColor(class)).Bold(true)
}

// highlightStyle fills a highlighted country
func highlightStyle(class string) tcell.Style {
	c := TierColor(class)
	return tcell.StyleDefault.Background(c).Foreground(c)
}

var (
	starDim, _   = colorful.Hex(hexStarDim)
	starLight, _ = colorful.Hex(hexStarLight)
)

// StarStyle fades a star from dim blue-grey to white with its opacity
func StarStyle(opacity float64) tcell.Style {
	c := starDim.BlendLab(starLight, opacity)
	return StyleSpace.Foreground(toTcell(c))
}

// StarChar picks a glyph for a star's apparent size
func StarChar(size float64) rune {
	switch {
	case size >= 0.6:
		return '*'
	case size >= 0.4:
		return '+'
	case size >= 0.3:
		return '·'
	default:
		return '.'
	}
}
