package renderer

import (
	"fmt"
	"log"

	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/graphics"
	"github.com/keshavsharma54126/goblackhole/scene"
	"github.com/keshavsharma54126/goblackhole/shader"
)

// Scene is the black hole program for one preset, drawn to a surface. It
// is the window-mode frame.Target.
type Scene struct {
	Name    string
	backend graphics.Backend
	surface graphics.Surface
	program graphics.Program

	width, height int
}

// LoadScene builds the fragment shader for cfg and compiles it on backend.
func LoadScene(backend graphics.Backend, surface graphics.Surface, cfg *scene.Config) (*Scene, error) {
	fs := shader.GetFragmentShader(cfg)
	vs := shader.GenerateVertexShader()

	program, err := backend.CompileProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s program: %w", cfg.Name, err)
	}
	log.Printf("Loaded scene: %s", cfg.Name)

	return &Scene{
		Name:    cfg.Name,
		backend: backend,
		surface: surface,
		program: program,
	}, nil
}

func (s *Scene) Size() (int, int) {
	return s.surface.FramebufferSize()
}

// Render uploads u and draws one frame. The viewport follows the
// framebuffer when the window is resized.
func (s *Scene) Render(u *frame.Uniforms) error {
	w, h := int(u.Resolution[0]), int(u.Resolution[1])
	if w != s.width || h != s.height {
		s.width, s.height = w, h
		s.backend.ResizeViewport(w, h)
	}

	s.backend.Clear(0, 0, 0, 1)
	for _, name := range frame.UniformNames {
		values, _ := u.Values(name)
		if err := s.backend.SetUniform(s.program, name, values...); err != nil {
			return err
		}
	}
	s.backend.SubmitFullscreenQuad(s.program)
	return nil
}

// Present swaps buffers and polls input, which runs the surface callbacks.
func (s *Scene) Present() error {
	s.surface.EndFrame()
	return nil
}

func (s *Scene) Done() bool {
	return s.surface.ShouldClose()
}
