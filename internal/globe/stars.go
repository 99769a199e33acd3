package globe

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
)

// Star is one point of the decorative star field, in field units relative
// to the globe centre. Stars are generated once and never change.
type Star struct {
	X, Y, Z float64
}

// StarOptions controls star field generation and projection
type StarOptions struct {
	Count        int
	ShellMin     float64 // inner radius of the sampling shell, unit cube space
	ShellMax     float64 // outer radius of the sampling shell
	SphereRadius float64 // globe radius the field is sized against
	FieldRadius  float64 // x/y extent as a multiple of SphereRadius
	FieldDepth   float64 // z extent
	Size         float64 // base apparent size
	FocalLength  float64
}

// GenerateStars samples Count points uniformly from the cube [-1, 1]^3,
// keeps those whose distance from the origin lies in [ShellMin, ShellMax]
// and scales them out to the field size
func GenerateStars(rng *rand.Rand, opts StarOptions) []Star {
	stars := make([]Star, 0, opts.Count)

	for len(stars) < opts.Count {
		x := rng.Float64()*2 - 1
		y := rng.Float64()*2 - 1
		z := rng.Float64()*2 - 1

		d := math.Sqrt(x*x + y*y + z*z)
		if d < opts.ShellMin || d > opts.ShellMax {
			continue
		}

		stars = append(stars, Star{
			X: x * opts.SphereRadius * opts.FieldRadius,
			Y: y * opts.SphereRadius * opts.FieldRadius,
			Z: z * opts.FieldDepth,
		})
	}

	return stars
}

// ProjectedStar is where a star lands on screen for one frame, as an
// offset from the globe centre
type ProjectedStar struct {
	DX, DY  float64
	Size    float64
	Opacity float64 // in [0, 1]
	Visible bool
}

// starRotation turns the field with the globe: longitude about the
// vertical axis first, then latitude about the horizontal axis
func starRotation(lambda, phi float64) mgl64.Mat3 {
	return mgl64.Rotate3DX(mgl64.DegToRad(phi)).Mul3(mgl64.Rotate3DY(-mgl64.DegToRad(lambda)))
}

// ProjectStars rotates every star by the globe rotation and applies a
// perspective divide. Nearer stars appear larger and brighter.
func ProjectStars(stars []Star, lambda, phi float64, opts StarOptions) []ProjectedStar {
	rot := starRotation(lambda, phi)
	out := make([]ProjectedStar, len(stars))

	for i, s := range stars {
		v := rot.Mul3x1(mgl64.Vec3{s.X, s.Y, s.Z})
		out[i] = projectStar(v, opts)
	}

	return out
}

func projectStar(v mgl64.Vec3, opts StarOptions) ProjectedStar {
	x, y, z := v[0], v[1], v[2]

	// Stars at or behind the eye have no sensible projection
	denom := opts.FocalLength + z
	if denom <= 1e-9 {
		return ProjectedStar{}
	}
	k := opts.FocalLength / denom

	depth := 1 - z/opts.FieldDepth
	return ProjectedStar{
		DX:      x * k,
		DY:      y * k,
		Size:    math.Max(0.2, opts.Size*depth),
		Opacity: math.Max(0, math.Min(1, 0.5+0.5*depth)),
		Visible: true,
	}
}
