package globe

import (
	"globequiz/internal/geo"
)

// CommandKind identifies what a DrawCommand draws
type CommandKind int

const (
	DrawStar CommandKind = iota
	DrawSphere
	DrawCountry
	DrawMarker
	DrawTravelLine
)

// Vertex is a projected point. Points on the far hemisphere keep a NaN
// position and Visible false; consumers skip them.
type Vertex struct {
	geo.ScreenPoint
	Visible bool
}

// DrawCommand is one element of a frame, in back-to-front order
type DrawCommand struct {
	Kind CommandKind

	// DrawSphere and DrawMarker
	Center geo.ScreenPoint
	Radius float64

	// DrawSphere: the projection of this frame, for inverse lookups
	Projection *geo.Orthographic

	// DrawStar
	Star ProjectedStar

	// DrawCountry
	Country   *geo.Country
	Rings     [][]Vertex
	Highlight string // result class, empty when the country is not highlighted
	Borders   bool

	// DrawMarker and DrawTravelLine
	Points []Vertex
}

// MarkerRadius is the guess marker size in virtual pixels
const MarkerRadius = 5

// FrameInput is everything a frame depends on
type FrameInput struct {
	State     State
	Countries []*geo.Country

	Stars       []Star
	StarOptions StarOptions

	Highlights map[string]string // country ID to result class
	Borders    bool

	Marker     *geo.LatLon
	TravelLine []geo.LatLon // already cut to the animated length
}

// BuildFrame turns the view and the world into draw commands. It does not
// modify its input and depends on nothing else.
func BuildFrame(in FrameInput) []DrawCommand {
	proj := in.State.Projection()
	center := geo.ScreenPoint{X: in.State.CenterX, Y: in.State.CenterY}

	cmds := make([]DrawCommand, 0, len(in.Stars)+len(in.Countries)+3)

	for _, ps := range ProjectStars(in.Stars, in.State.Lambda, in.State.Phi, in.StarOptions) {
		ps.DX += center.X
		ps.DY += center.Y
		cmds = append(cmds, DrawCommand{Kind: DrawStar, Star: ps})
	}

	cmds = append(cmds, DrawCommand{Kind: DrawSphere, Center: center, Radius: in.State.Scale, Projection: proj})

	for _, c := range in.Countries {
		rings := c.Rings()
		projected := make([][]Vertex, len(rings))
		for i, ring := range rings {
			vs := make([]Vertex, len(ring))
			for j, pt := range ring {
				vs[j] = project(proj, geo.FromPoint(pt))
			}
			projected[i] = vs
		}
		cmds = append(cmds, DrawCommand{
			Kind:      DrawCountry,
			Country:   c,
			Rings:     projected,
			Highlight: in.Highlights[c.ID],
			Borders:   in.Borders,
		})
	}

	if len(in.TravelLine) > 1 {
		vs := make([]Vertex, len(in.TravelLine))
		for i, ll := range in.TravelLine {
			vs[i] = project(proj, ll)
		}
		cmds = append(cmds, DrawCommand{Kind: DrawTravelLine, Points: vs})
	}

	if in.Marker != nil {
		v := project(proj, *in.Marker)
		cmds = append(cmds, DrawCommand{Kind: DrawMarker, Center: v.ScreenPoint, Radius: MarkerRadius, Points: []Vertex{v}})
	}

	return cmds
}

func project(p *geo.Orthographic, ll geo.LatLon) Vertex {
	pt, ok := p.Project(ll)
	return Vertex{ScreenPoint: pt, Visible: ok}
}
