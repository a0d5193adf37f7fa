package frame

import "github.com/go-gl/mathgl/mgl64"

// Uniform names shared by every backend and every preset.
const (
	UniformResolution = "resolution"
	UniformTime       = "time"
	UniformCamera     = "camera"
	UniformZoom       = "zoom"
	UniformMouse      = "mouse"
)

// UniformNames lists the per-frame uniforms in upload order.
var UniformNames = []string{
	UniformResolution,
	UniformTime,
	UniformCamera,
	UniformZoom,
	UniformMouse,
}

// Uniforms is the per-frame input to the shading model. It is rebuilt every
// frame and never mutated by consumers.
type Uniforms struct {
	// Resolution is the render target size in pixels.
	Resolution mgl64.Vec2
	// Time is seconds since the scheduler started.
	Time   float64
	Camera mgl64.Vec2
	Zoom   float64
	// Mouse is the last pointer position in NDC.
	Mouse mgl64.Vec2
	// Frame counts iterations from zero.
	Frame int64
}

// Values returns the uniform's components as float32, the form GL uploads.
func (u *Uniforms) Values(name string) ([]float32, bool) {
	switch name {
	case UniformResolution:
		return []float32{float32(u.Resolution[0]), float32(u.Resolution[1])}, true
	case UniformTime:
		return []float32{float32(u.Time)}, true
	case UniformCamera:
		return []float32{float32(u.Camera[0]), float32(u.Camera[1])}, true
	case UniformZoom:
		return []float32{float32(u.Zoom)}, true
	case UniformMouse:
		return []float32{float32(u.Mouse[0]), float32(u.Mouse[1])}, true
	}
	return nil, false
}
