package camera

// Event is an input event delivered to a Controller. Coordinates are in
// device pixels with the origin at the top-left of the viewport.
type Event interface {
	isEvent()
}

// Touch is a single contact point.
type Touch struct {
	X, Y float64
}

type PointerDown struct{ X, Y float64 }
type PointerMove struct{ X, Y float64 }
type PointerUp struct{}

// Wheel carries a DOM-style deltaY: positive scrolls down (zooms out).
type Wheel struct{ DeltaY float64 }

type TouchStart struct{ Touches []Touch }
type TouchMove struct{ Touches []Touch }
type TouchEnd struct{}

// Resize reports the new viewport size in device pixels.
type Resize struct{ Width, Height int }

func (PointerDown) isEvent() {}
func (PointerMove) isEvent() {}
func (PointerUp) isEvent()   {}
func (Wheel) isEvent()       {}
func (TouchStart) isEvent()  {}
func (TouchMove) isEvent()   {}
func (TouchEnd) isEvent()    {}
func (Resize) isEvent()      {}
