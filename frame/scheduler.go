package frame

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/camera"
)

// Target is where frames go: a window, a terminal, or an offscreen sink.
type Target interface {
	// Size returns the current drawable size in pixels.
	Size() (width, height int)
	Render(u *Uniforms) error
	// Present ends the frame. Interactive targets block here until the next
	// refresh and deliver queued input to the camera.
	Present() error
	// Done reports that the target wants to stop, e.g. the window closed.
	Done() bool
}

// Scheduler drives the per-frame loop: advance the camera, build the
// uniforms, render and present.
type Scheduler struct {
	Camera *camera.Controller
	Target Target
	Clock  Clock
	// MaxFrames stops the loop after that many frames. Zero means no bound.
	MaxFrames int64

	frames        int64
	width, height int
}

// Frames returns the number of frames presented so far.
func (s *Scheduler) Frames() int64 { return s.frames }

// Run loops until the target is done, ctx is cancelled, MaxFrames is
// reached, or rendering fails. A cancelled context is reported as
// ctx.Err(); the first render or present error stops the loop and is
// returned wrapped. Frames never overlap.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.Camera == nil || s.Target == nil || s.Clock == nil {
		return errors.New("scheduler needs a camera, a target and a clock")
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Target.Done() {
			return nil
		}
		if s.MaxFrames > 0 && s.frames >= s.MaxFrames {
			return nil
		}

		u := s.next()
		if err := s.Target.Render(u); err != nil {
			return fmt.Errorf("frame %d: render: %w", u.Frame, err)
		}
		if err := s.Target.Present(); err != nil {
			return fmt.Errorf("frame %d: present: %w", u.Frame, err)
		}
		s.frames++
	}
}

func (s *Scheduler) next() *Uniforms {
	w, h := s.Target.Size()
	if w != s.width || h != s.height {
		s.width, s.height = w, h
		s.Camera.Handle(camera.Resize{Width: w, Height: h})
	}

	s.Camera.Step()
	st := s.Camera.State()

	return &Uniforms{
		Resolution: mgl64.Vec2{float64(w), float64(h)},
		Time:       s.Clock.Tick(),
		Camera:     st.Position,
		Zoom:       st.Zoom,
		Mouse:      s.Camera.PointerNDC(),
		Frame:      s.frames,
	}
}
