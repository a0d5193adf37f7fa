// Package camera holds the damped pan/zoom camera and the gesture state
// machine that turns pointer, touch and wheel events into camera targets.
//
// Event handlers only move targets. Step, called once per frame, moves the
// actual position and zoom toward them with a first-order exponential
// filter. Nothing here is safe for concurrent use; handlers and Step are
// expected to run on the frame goroutine.
package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GestureMode is the active input gesture.
type GestureMode int

const (
	Idle GestureMode = iota
	Panning
	Pinching
)

func (m GestureMode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Pinching:
		return "pinching"
	default:
		return fmt.Sprintf("GestureMode(%d)", int(m))
	}
}

// Settings are the controller's tuning constants.
type Settings struct {
	BaseSensitivity  float64
	ZoomFloor        float64
	PinchSensitivity float64
	WheelSensitivity float64
	MinZoom          float64
	MaxZoom          float64
	Damping          float64
}

// DefaultSettings give the heavy, slow "telescope" feel.
var DefaultSettings = Settings{
	BaseSensitivity:  0.8,
	ZoomFloor:        0.5,
	PinchSensitivity: 1.0,
	WheelSensitivity: 0.0015,
	MinZoom:          0.4,
	MaxZoom:          200,
	Damping:          0.05,
}

// Validate reports settings that would break the zoom or damping invariants.
func (s Settings) Validate() error {
	if s.MinZoom <= 0 || s.MaxZoom < s.MinZoom {
		return fmt.Errorf("invalid zoom bounds [%v, %v]", s.MinZoom, s.MaxZoom)
	}
	if s.Damping <= 0 || s.Damping > 1 {
		return fmt.Errorf("damping %v outside (0,1]", s.Damping)
	}
	if s.ZoomFloor <= 0 {
		return fmt.Errorf("zoom floor %v must be positive", s.ZoomFloor)
	}
	return nil
}

// State is the camera transform and its targets.
type State struct {
	Position       mgl64.Vec2
	Zoom           float64
	TargetPosition mgl64.Vec2
	TargetZoom     float64
}

// Gesture is the pointer gesture state.
type Gesture struct {
	Mode GestureMode
	// Anchor is the last recorded pointer position while panning.
	Anchor mgl64.Vec2
	// PinchDistance is the last inter-finger distance while pinching.
	PinchDistance float64
}

// Controller owns the camera state and the gesture state machine.
type Controller struct {
	settings Settings
	state    State
	gesture  Gesture
	initial  State

	width, height int
	pointer       mgl64.Vec2
	pointerSeen   bool
}

// NewController creates a controller at the given position and zoom. The
// zoom is clamped into the settings' bounds.
func NewController(settings Settings, position mgl64.Vec2, zoom float64) (*Controller, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		settings: settings,
		width:    1,
		height:   1,
	}
	zoom = c.clampZoom(zoom)
	c.state = State{
		Position:       position,
		Zoom:           zoom,
		TargetPosition: position,
		TargetZoom:     zoom,
	}
	c.initial = c.state
	return c, nil
}

// State returns a copy of the camera state.
func (c *Controller) State() State { return c.state }

// Gesture returns a copy of the gesture state.
func (c *Controller) Gesture() Gesture { return c.gesture }

// Viewport returns the last size reported by a Resize event.
func (c *Controller) Viewport() (int, int) { return c.width, c.height }

// SetTarget moves the targets directly, e.g. for scripted camera moves.
func (c *Controller) SetTarget(position mgl64.Vec2, zoom float64) {
	c.state.TargetPosition = position
	c.state.TargetZoom = c.clampZoom(zoom)
}

// Reset returns the targets to the initial transform and ends any gesture.
func (c *Controller) Reset() {
	c.state.TargetPosition = c.initial.TargetPosition
	c.state.TargetZoom = c.initial.TargetZoom
	c.gesture = Gesture{}
}

// PointerNDC is the last pointer position in normalized device coordinates,
// x right and y up, both in [-1,1].
func (c *Controller) PointerNDC() mgl64.Vec2 {
	if !c.pointerSeen {
		return mgl64.Vec2{}
	}
	x := c.pointer[0]/float64(c.width)*2 - 1
	y := -(c.pointer[1]/float64(c.height)*2 - 1)
	return mgl64.Vec2{clamp(x, -1, 1), clamp(y, -1, 1)}
}

// Handle applies one input event.
func (c *Controller) Handle(ev Event) {
	switch e := ev.(type) {
	case PointerDown:
		c.track(e.X, e.Y)
		c.beginPan(c.pointer)
	case PointerMove:
		c.track(e.X, e.Y)
		if c.gesture.Mode == Panning {
			c.pan(c.pointer)
		}
	case PointerUp:
		c.gesture = Gesture{}
	case Wheel:
		c.adjustZoom(e.DeltaY * c.settings.WheelSensitivity)
	case TouchStart:
		switch {
		case len(e.Touches) >= 2:
			c.gesture = Gesture{
				Mode:          Pinching,
				PinchDistance: touchDistance(e.Touches[0], e.Touches[1]),
			}
		case len(e.Touches) == 1:
			c.track(e.Touches[0].X, e.Touches[0].Y)
			c.beginPan(c.pointer)
		}
	case TouchMove:
		switch {
		case c.gesture.Mode == Pinching && len(e.Touches) >= 2:
			c.pinch(touchDistance(e.Touches[0], e.Touches[1]))
		case c.gesture.Mode == Panning && len(e.Touches) >= 1:
			c.track(e.Touches[0].X, e.Touches[0].Y)
			c.pan(c.pointer)
		}
	case TouchEnd:
		c.gesture = Gesture{}
	case Resize:
		if e.Width > 0 && e.Height > 0 {
			c.width, c.height = e.Width, e.Height
		}
	}
}

// Step advances position and zoom one frame toward their targets. It runs
// every frame regardless of gesture state.
func (c *Controller) Step() {
	d := c.settings.Damping
	s := &c.state
	s.Position = s.Position.Add(s.TargetPosition.Sub(s.Position).Mul(d))
	s.Zoom += (s.TargetZoom - s.Zoom) * d
}

// Sensitivity is the pan scale at the current zoom: finer when zoomed in.
func (c *Controller) Sensitivity() float64 {
	return c.settings.BaseSensitivity / math.Max(c.state.Zoom, c.settings.ZoomFloor)
}

func (c *Controller) track(x, y float64) {
	c.pointer = mgl64.Vec2{x, y}
	c.pointerSeen = true
}

func (c *Controller) beginPan(at mgl64.Vec2) {
	c.gesture = Gesture{Mode: Panning, Anchor: at}
}

func (c *Controller) pan(to mgl64.Vec2) {
	s := c.Sensitivity()
	dx := (to[0] - c.gesture.Anchor[0]) / float64(c.width) * s
	dy := (to[1] - c.gesture.Anchor[1]) / float64(c.height) * s
	// Screen y grows downward, world y grows upward.
	c.state.TargetPosition[0] -= dx
	c.state.TargetPosition[1] += dy
	c.gesture.Anchor = to
}

func (c *Controller) pinch(distance float64) {
	if c.gesture.PinchDistance > 0 {
		delta := (1 - distance/c.gesture.PinchDistance) * c.settings.PinchSensitivity
		c.adjustZoom(delta)
	}
	c.gesture.PinchDistance = distance
}

// adjustZoom is the rule shared by wheel and pinch.
func (c *Controller) adjustZoom(delta float64) {
	c.state.TargetZoom = c.clampZoom(c.state.TargetZoom * (1 - delta))
}

func (c *Controller) clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return c.settings.MinZoom
	}
	return clamp(z, c.settings.MinZoom, c.settings.MaxZoom)
}

func touchDistance(a, b Touch) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
