package globe

import (
	"math"
	"time"

	"globequiz/internal/config"
	"globequiz/internal/debug"
	"globequiz/internal/geo"
)

// Mode is the rotation state of the globe
type Mode int

const (
	AutoRotating Mode = iota
	UserDragging
	Paused
)

func (m Mode) String() string {
	switch m {
	case AutoRotating:
		return "auto-rotating"
	case UserDragging:
		return "dragging"
	case Paused:
		return "paused"
	}
	return "unknown"
}

// State is a snapshot of the globe's view
type State struct {
	Lambda float64 // longitude rotation in degrees, wrapped to [-180, 180)
	Phi    float64 // latitude rotation in degrees, not clamped
	Gamma  float64
	Scale  float64 // globe radius in virtual pixels
	Mode   Mode

	CenterX, CenterY float64 // disc centre in virtual pixels
}

// AutoRotating reports whether the globe turns on its own
func (s State) AutoRotating() bool {
	return s.Mode == AutoRotating
}

// Projection builds a projection for this view. The result is independent
// of the controller the state came from.
func (s State) Projection() *geo.Orthographic {
	p := geo.NewOrthographic(s.Scale, s.CenterX, s.CenterY)
	p.SetRotation(s.Lambda, s.Phi, s.Gamma)
	return p
}

// Controller owns the orthographic projection and every change made to
// its rotation and scale. All methods must be called from one goroutine.
type Controller struct {
	proj *geo.Orthographic
	cfg  config.Config

	mode            Mode
	initialRotation [3]float64
	lastStep        time.Time

	pinching      bool
	pinchDistance float64
	pinchScale    float64
}

// NewController creates a controller for a screen of the given size in
// virtual pixels. The globe starts auto-rotating.
func NewController(cfg config.Config, width, height float64) *Controller {
	scale := cfg.InitialScale
	if scale == 0 {
		scale = math.Min(width, height) * 0.4
	}
	return &Controller{
		proj: geo.NewOrthographic(clamp(scale, cfg.MinScale, cfg.MaxScale), width/2, height/2),
		cfg:  cfg,
		mode: AutoRotating,
	}
}

// State returns the current view
func (c *Controller) State() State {
	lambda, phi, gamma := c.proj.Rotation()
	cx, cy := c.proj.Translate()
	return State{
		Lambda:  lambda,
		Phi:     phi,
		Gamma:   gamma,
		Scale:   c.proj.Scale(),
		Mode:    c.mode,
		CenterX: cx,
		CenterY: cy,
	}
}

// Projection exposes the underlying projection for read-only use by
// renderers
func (c *Controller) Projection() *geo.Orthographic {
	return c.proj
}

// InitialRotation returns the rotation captured when the last drag began
func (c *Controller) InitialRotation() (lambda, phi, gamma float64) {
	return c.initialRotation[0], c.initialRotation[1], c.initialRotation[2]
}

// sensitivity converts pixels to degrees at the current zoom
func (c *Controller) sensitivity() float64 {
	return c.cfg.Sensitivity / c.proj.Scale()
}

// AutoStep is the longitude change of one auto-rotation step at the
// current zoom
func (c *Controller) AutoStep() float64 {
	return c.cfg.AutoStep * c.sensitivity()
}

// AdvanceRotation performs one auto-rotation step if the globe is
// auto-rotating and most of a frame interval has passed since the last
// step, so a tick that arrives slightly early still steps. Calling it again
// with the same time is a no-op. It reports whether the rotation changed.
func (c *Controller) AdvanceRotation(now time.Time) bool {
	if c.mode != AutoRotating {
		return false
	}
	if !c.lastStep.IsZero() && now.Sub(c.lastStep) < c.minStepGap() {
		return false
	}
	c.lastStep = now

	lambda, phi, gamma := c.proj.Rotation()
	c.proj.SetRotation(wrapDegrees(lambda-c.AutoStep()), phi, gamma)
	return true
}

// minStepGap is the shortest gap between two rotation steps, three
// quarters of a frame
func (c *Controller) minStepGap() time.Duration {
	return c.cfg.FrameInterval.Duration * 3 / 4
}

// DragStart stops auto-rotation and remembers where the drag began
func (c *Controller) DragStart() {
	lambda, phi, gamma := c.proj.Rotation()
	c.initialRotation = [3]float64{lambda, phi, gamma}
	c.setMode(UserDragging)
}

// Drag rotates the globe by a pointer movement in virtual pixels
func (c *Controller) Drag(dx, dy float64) {
	k := c.sensitivity()
	lambda, phi, gamma := c.proj.Rotation()
	c.proj.SetRotation(wrapDegrees(lambda+dx*k), phi-dy*k, gamma)
}

// DragEnd finishes a drag. Whether rotation resumes depends on the
// configured resume policy.
func (c *Controller) DragEnd() {
	if c.mode != UserDragging {
		return
	}
	if c.cfg.Resume == config.ResumeOnRelease {
		c.setMode(AutoRotating)
		return
	}
	c.setMode(Paused)
}

// OnCorrectGuess resumes rotation when the policy waits for a correct answer
func (c *Controller) OnCorrectGuess() {
	if c.mode == Paused && c.cfg.Resume == config.ResumeOnCorrect {
		c.setMode(AutoRotating)
	}
}

// Resume restarts automatic rotation regardless of policy
func (c *Controller) Resume() {
	if c.mode != UserDragging {
		c.setMode(AutoRotating)
	}
}

func (c *Controller) setMode(m Mode) {
	if c.mode == m {
		return
	}
	debug.Log("Globe %s -> %s", c.mode, m)
	c.mode = m
	// The next frame steps straight away rather than after an interval
	c.lastStep = time.Time{}
}

// Zoom changes the scale by a pixel delta times the zoom sensitivity,
// clamped to the configured bounds
func (c *Controller) Zoom(deltaPixels float64) {
	c.setScale(c.proj.Scale() + deltaPixels*c.cfg.ZoomSensitivity)
}

// Wheel zooms by a wheel delta. Negative deltaY (scrolling up) zooms in.
func (c *Controller) Wheel(deltaY float64) {
	c.Zoom(-deltaY)
}

// PinchStart records the finger distance and scale a pinch starts from
func (c *Controller) PinchStart(distance float64) {
	if distance <= 0 {
		return
	}
	c.pinching = true
	c.pinchDistance = distance
	c.pinchScale = c.proj.Scale()
}

// Pinch scales relative to the pinch start by the ratio of finger distances
func (c *Controller) Pinch(distance float64) {
	if !c.pinching || distance < 0 {
		return
	}
	c.setScale(c.pinchScale * distance / c.pinchDistance)
}

// PinchEnd forgets the pinch start
func (c *Controller) PinchEnd() {
	c.pinching = false
	c.pinchDistance = 0
	c.pinchScale = 0
}

func (c *Controller) setScale(scale float64) {
	if math.IsNaN(scale) {
		return
	}
	c.proj.SetScale(clamp(scale, c.cfg.MinScale, c.cfg.MaxScale))
}

// FocusOn rotates the globe so the coordinate sits at the disc centre
func (c *Controller) FocusOn(ll geo.LatLon) {
	_, _, gamma := c.proj.Rotation()
	c.proj.SetRotation(wrapDegrees(-ll.Lon), -ll.Lat, gamma)
}

// Resize recentres the globe on a new screen size
func (c *Controller) Resize(width, height float64) {
	c.proj.SetTranslate(width/2, height/2)
}

// Project maps a coordinate to virtual pixels; ok is false on the far side
func (c *Controller) Project(ll geo.LatLon) (geo.ScreenPoint, bool) {
	return c.proj.Project(ll)
}

// Invert maps virtual pixels to a coordinate; ok is false off the disc
func (c *Controller) Invert(pt geo.ScreenPoint) (geo.LatLon, bool) {
	return c.proj.Invert(pt)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// wrapDegrees maps an angle to [-180, 180)
func wrapDegrees(a float64) float64 {
	a = math.Mod(a+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}
