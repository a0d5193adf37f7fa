package graphics

import (
	"errors"
	"fmt"
)

// Surface is a drawable with a framebuffer, e.g. a GLFW window.
type Surface interface {
	FramebufferSize() (int, int)
	ShouldClose() bool
	// EndFrame presents the frame and delivers queued input events.
	EndFrame()
	Shutdown()
}

// Context is a Surface whose GL context can be bound to the calling thread.
type Context interface {
	Surface
	MakeCurrent()
}

// Program is an opaque handle to a linked shader program.
type Program uint32

// Backend issues draw calls against a Surface's context.
type Backend interface {
	CompileProgram(vertexSource, fragmentSource string) (Program, error)
	// SetUniform uploads 1 to 4 float components by source-level name.
	SetUniform(p Program, name string, values ...float32) error
	SubmitFullscreenQuad(p Program)
	ResizeViewport(width, height int)
	Clear(r, g, b, a float32)
}

// ErrUnknownUniform is returned by SetUniform for a name that was not
// resolved when the program was built.
var ErrUnknownUniform = errors.New("unknown uniform")

// Stage names the step of program construction that failed.
type Stage string

const (
	StageTranslate Stage = "translate"
	StageVertex    Stage = "vertex"
	StageFragment  Stage = "fragment"
	StageLink      Stage = "link"
)

// CompileError carries the driver's diagnostic for a failed shader build.
type CompileError struct {
	Stage      Stage
	Diagnostic string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader build failed: %s", e.Stage, e.Diagnostic)
}
