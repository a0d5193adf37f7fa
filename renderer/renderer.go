package renderer

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/keshavsharma54126/goblackhole/graphics"
	xlate "github.com/keshavsharma54126/goblackhole/translator"
	gst "github.com/richinsley/goshadertranslator"
)

var glInitOnce sync.Once

// program is a linked GL program plus its uniform table. declared holds
// every uniform the source names; locations only those the translator
// reported as active.
type program struct {
	id        uint32
	declared  map[string]bool
	locations map[string]int32
}

// Renderer is the OpenGL 4.1 implementation of graphics.Backend.
type Renderer struct {
	context  graphics.Context
	quadVAO  uint32
	quadVBO  uint32
	programs map[graphics.Program]*program
	current  graphics.Program
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// NewRenderer makes ctx current, loads the GL entry points and builds the
// full-screen quad.
func NewRenderer(ctx graphics.Context) (*Renderer, error) {
	r := &Renderer{
		context:  ctx,
		programs: make(map[graphics.Program]*program),
	}

	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return r, nil
}

// Shutdown releases every GL object the renderer created. The surface
// itself belongs to the caller.
func (r *Renderer) Shutdown() {
	for _, p := range r.programs {
		gl.DeleteProgram(p.id)
	}
	r.programs = nil
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
}

// CompileProgram translates the GLSL ES 3.00 fragment source to desktop
// GLSL 410, compiles it against the vertex source and links them.
func (r *Renderer) CompileProgram(vertexSource, fragmentSource string) (graphics.Program, error) {
	translator, err := xlate.GetTranslator()
	if err != nil {
		return 0, err
	}
	fsShader, err := translator.TranslateShader(fragmentSource, "fragment", gst.ShaderSpecWebGL2, gst.OutputFormatGLSL410)
	if err != nil {
		return 0, &graphics.CompileError{Stage: graphics.StageTranslate, Diagnostic: err.Error()}
	}

	id, err := newProgram(vertexSource, fsShader.Code)
	if err != nil {
		return 0, err
	}

	p := &program{
		id:        id,
		declared:  declaredUniforms(fragmentSource),
		locations: make(map[string]int32),
	}
	gl.UseProgram(id)
	for name := range p.declared {
		if v, ok := fsShader.Variables[name]; ok {
			p.locations[name] = gl.GetUniformLocation(id, gl.Str(v.MappedName+"\x00"))
		}
	}

	handle := graphics.Program(id)
	r.programs[handle] = p
	r.current = handle
	return handle, nil
}

// SetUniform uploads values to the named uniform of p. A uniform that is
// declared but optimized out is silently skipped.
func (r *Renderer) SetUniform(h graphics.Program, name string, values ...float32) error {
	p, ok := r.programs[h]
	if !ok {
		return fmt.Errorf("program %d is not registered", h)
	}
	if !p.declared[name] {
		return fmt.Errorf("uniform %q: %w", name, graphics.ErrUnknownUniform)
	}
	loc, ok := p.locations[name]
	if !ok || loc < 0 {
		return nil
	}
	r.use(h)

	switch len(values) {
	case 1:
		gl.Uniform1f(loc, values[0])
	case 2:
		gl.Uniform2f(loc, values[0], values[1])
	case 3:
		gl.Uniform3f(loc, values[0], values[1], values[2])
	case 4:
		gl.Uniform4f(loc, values[0], values[1], values[2], values[3])
	default:
		return fmt.Errorf("uniform %q: %d components not supported", name, len(values))
	}
	return nil
}

// SubmitFullscreenQuad draws the quad with p.
func (r *Renderer) SubmitFullscreenQuad(h graphics.Program) {
	r.use(h)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
}

func (r *Renderer) ResizeViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (r *Renderer) Clear(red, green, blue, alpha float32) {
	gl.ClearColor(red, green, blue, alpha)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (r *Renderer) use(h graphics.Program) {
	if r.current == h {
		return
	}
	if p, ok := r.programs[h]; ok {
		gl.UseProgram(p.id)
		r.current = h
	}
}

var uniformDecl = regexp.MustCompile(`(?m)^\s*uniform\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)\s*;`)

// declaredUniforms lists the uniform names declared in GLSL source.
func declaredUniforms(source string) map[string]bool {
	names := make(map[string]bool)
	for _, m := range uniformDecl.FindAllStringSubmatch(source, -1) {
		names[m[1]] = true
	}
	return names
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &graphics.CompileError{Stage: graphics.StageLink, Diagnostic: strings.TrimRight(log, "\x00")}
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)

		stage := graphics.StageFragment
		if shaderType == gl.VERTEX_SHADER {
			stage = graphics.StageVertex
		}
		return 0, &graphics.CompileError{Stage: stage, Diagnostic: strings.TrimRight(logText, "\x00")}
	}
	return shader, nil
}
