package glfwcontext

import (
	"log"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/keshavsharma54126/goblackhole/camera"
)

// Context is a GLFW window with an OpenGL 4.1 core context. Input callbacks
// are translated to camera events and passed to the handler; they run
// inside EndFrame on the thread that owns the window.
type Context struct {
	window *glfw.Window
	handle func(camera.Event)
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

// New creates a resizable window and makes its context current with vsync
// on. handle receives pointer and wheel input and may be nil.
func New(width, height int, title string, handle func(camera.Event)) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	if handle == nil {
		handle = func(camera.Event) {}
	}
	c := &Context{
		window:       win,
		handle:       handle,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetMouseButtonCallback(c.glfwMouseButtonCallback)
	win.SetScrollCallback(c.glfwScrollCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	if action == glfw.Press {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	x, y := c.toFramebuffer(xpos, ypos)
	c.handle(camera.PointerMove{X: x, Y: y})
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		x, y := c.toFramebuffer(w.GetCursorPos())
		c.handle(camera.PointerDown{X: x, Y: y})
	case glfw.Release:
		c.handle(camera.PointerUp{})
	}
}

func (c *Context) glfwScrollCallback(w *glfw.Window, xoff, yoff float64) {
	c.handle(camera.Wheel{DeltaY: WheelDelta(yoff)})
}

// toFramebuffer converts window coordinates to framebuffer pixels, which
// differ on HiDPI displays.
func (c *Context) toFramebuffer(x, y float64) (float64, float64) {
	fbWidth, fbHeight := c.window.GetFramebufferSize()
	winWidth, winHeight := c.window.GetSize()
	return ScaleCursor(x, y, fbWidth, fbHeight, winWidth, winHeight)
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) FramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// InitGraphics initializes GLFW. Must be called from the main thread, which
// the caller has locked with runtime.LockOSThread.
func InitGraphics() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down GLFW. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
