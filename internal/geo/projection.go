package geo

import (
	"math"
)

const (
	radians = math.Pi / 180
	degrees = 180 / math.Pi
)

// ScreenPoint is a position in virtual screen pixels, origin top-left
type ScreenPoint struct {
	X float64
	Y float64
}

// Orthographic projects the sphere as seen from infinitely far away.
//
// Rotation is (lambda, phi, gamma) in degrees and is applied to a point
// before projecting: lambda turns about the polar axis, phi tilts about
// the horizontal screen axis and gamma rolls about the view axis. Points
// more than 90 degrees from the view centre are clipped.
type Orthographic struct {
	rotate     [3]float64
	scale      float64
	translateX float64
	translateY float64

	cosPhi, sinPhi     float64
	cosGamma, sinGamma float64
}

// NewOrthographic creates a projection centred on (translateX, translateY)
// with the given radius in pixels
func NewOrthographic(scale, translateX, translateY float64) *Orthographic {
	p := &Orthographic{
		scale:      scale,
		translateX: translateX,
		translateY: translateY,
	}
	p.SetRotation(0, 0, 0)
	return p
}

// SetRotation sets the three rotation angles in degrees
func (p *Orthographic) SetRotation(lambda, phi, gamma float64) {
	p.rotate = [3]float64{lambda, phi, gamma}
	p.sinPhi, p.cosPhi = math.Sincos(phi * radians)
	p.sinGamma, p.cosGamma = math.Sincos(gamma * radians)
}

// Rotation returns the rotation angles in degrees
func (p *Orthographic) Rotation() (lambda, phi, gamma float64) {
	return p.rotate[0], p.rotate[1], p.rotate[2]
}

// SetScale sets the globe radius in pixels
func (p *Orthographic) SetScale(scale float64) {
	p.scale = scale
}

// Scale returns the globe radius in pixels
func (p *Orthographic) Scale() float64 {
	return p.scale
}

// SetTranslate moves the globe centre on screen
func (p *Orthographic) SetTranslate(x, y float64) {
	p.translateX = x
	p.translateY = y
}

// Translate returns the globe centre on screen
func (p *Orthographic) Translate() (x, y float64) {
	return p.translateX, p.translateY
}

// rotateForward applies the view rotation to a point given in radians
func (p *Orthographic) rotateForward(lambda, phi float64) (float64, float64) {
	lambda = wrapRadians(lambda + p.rotate[0]*radians)

	cosP := math.Cos(phi)
	x := math.Cos(lambda) * cosP
	y := math.Sin(lambda) * cosP
	z := math.Sin(phi)
	k := z*p.cosPhi + x*p.sinPhi

	return math.Atan2(y*p.cosGamma-k*p.sinGamma, x*p.cosPhi-z*p.sinPhi),
		asin(k*p.cosGamma + y*p.sinGamma)
}

// rotateInverse undoes rotateForward
func (p *Orthographic) rotateInverse(lambda, phi float64) (float64, float64) {
	cosP := math.Cos(phi)
	x := math.Cos(lambda) * cosP
	y := math.Sin(lambda) * cosP
	z := math.Sin(phi)
	k := z*p.cosGamma - y*p.sinGamma

	lambda = math.Atan2(y*p.cosGamma+z*p.sinGamma, x*p.cosPhi+k*p.sinPhi)
	phi = asin(k*p.cosPhi - x*p.sinPhi)

	return wrapRadians(lambda - p.rotate[0]*radians), phi
}

// Project maps a coordinate to the screen. ok is false when the point lies
// on the far hemisphere and must not be drawn.
func (p *Orthographic) Project(ll LatLon) (pt ScreenPoint, ok bool) {
	lambda, phi := p.rotateForward(ll.Lon*radians, ll.Lat*radians)

	cosP := math.Cos(phi)
	if cosP*math.Cos(lambda) < 0 {
		return ScreenPoint{X: math.NaN(), Y: math.NaN()}, false
	}

	x := cosP * math.Sin(lambda)
	y := math.Sin(phi)
	return ScreenPoint{
		X: p.translateX + p.scale*x,
		Y: p.translateY - p.scale*y,
	}, true
}

// Invert maps a screen position back to a coordinate. ok is false outside
// the rendered disc.
func (p *Orthographic) Invert(pt ScreenPoint) (ll LatLon, ok bool) {
	if p.scale <= 0 {
		return LatLon{}, false
	}

	x := (pt.X - p.translateX) / p.scale
	y := (p.translateY - pt.Y) / p.scale

	z := math.Hypot(x, y)
	if z > 1 {
		return LatLon{}, false
	}

	cosC := math.Sqrt(1 - z*z)
	lambda := math.Atan2(x, cosC)
	phi := asin(y)

	lambda, phi = p.rotateInverse(lambda, phi)
	return LatLon{Lat: phi * degrees, Lon: lambda * degrees}, true
}

// Center returns the coordinate currently at the centre of the disc
func (p *Orthographic) Center() LatLon {
	ll, _ := p.Invert(ScreenPoint{X: p.translateX, Y: p.translateY})
	return ll
}

func asin(x float64) float64 {
	if x > 1 {
		return math.Pi / 2
	}
	if x < -1 {
		return -math.Pi / 2
	}
	return math.Asin(x)
}

func wrapRadians(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}
