// Package termview previews the scene in a terminal. Each cell shows two
// vertically stacked pixels with the upper half block glyph, so a terminal
// of W×H cells renders a W×2H frame.
package termview

import (
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/keshavsharma54126/goblackhole/camera"
	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/shading"
	"github.com/keshavsharma54126/goblackhole/softrender"
)

const upperHalfBlock = '▀'

// wheelStep is the deltaY reported for one wheel notch or zoom key press.
const wheelStep = 100.0

// View is a frame.Target drawing to a tcell screen. Mouse drag pans, the
// wheel zooms, r resets the camera and q or Esc quits.
type View struct {
	screen   tcell.Screen
	model    *shading.Model
	cam      *camera.Controller
	workers  int
	interval time.Duration

	renderer *softrender.Renderer
	events   chan tcell.Event
	lastShow time.Time
	buttons  tcell.ButtonMask
	quit     bool
	done     chan struct{}
	closed   bool
}

// New takes over screen, which must already be initialized. Present
// returns at most once per interval.
func New(screen tcell.Screen, model *shading.Model, cam *camera.Controller, interval time.Duration, workers int) (*View, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("invalid frame interval %v", interval)
	}
	screen.EnableMouse()
	screen.HideCursor()

	v := &View{
		screen:   screen,
		model:    model,
		cam:      cam,
		workers:  workers,
		interval: interval,
		events:   make(chan tcell.Event, 64),
		done:     make(chan struct{}),
	}
	go screen.ChannelEvents(v.events, v.done)
	return v, nil
}

// NewScreen creates and initializes the terminal screen.
func NewScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	return screen, nil
}

// Size returns the pixel size: one column per cell, two rows per cell.
func (v *View) Size() (int, int) {
	cols, rows := v.screen.Size()
	return cols, rows * 2
}

// Render shades the frame on the CPU at the terminal's pixel size.
func (v *View) Render(u *frame.Uniforms) error {
	w, h := int(u.Resolution[0]), int(u.Resolution[1])
	if w <= 0 || h <= 0 {
		return nil
	}
	if v.renderer == nil || !sameSize(v.renderer, w, h) {
		if v.renderer != nil {
			v.renderer.Close()
		}
		r, err := softrender.New(v.model, w, h, v.workers, nil)
		if err != nil {
			return err
		}
		v.renderer = r
	}
	return v.renderer.Render(u)
}

// Present draws the last frame, then handles input until the frame
// interval has elapsed.
func (v *View) Present() error {
	if v.renderer != nil {
		v.draw(v.renderer.Image())
	}
	v.screen.Show()

	deadline := v.lastShow.Add(v.interval)
	for {
		wait := time.Until(deadline)
		if wait <= 0 {
			break
		}
		select {
		case ev, ok := <-v.events:
			if !ok {
				// The screen stopped underneath us.
				v.quit = true
				return nil
			}
			v.HandleEvent(ev)
		case <-time.After(wait):
		}
	}
	// Deliver anything still queued without waiting.
	for drained := false; !drained; {
		select {
		case ev, ok := <-v.events:
			if !ok {
				v.quit = true
				return nil
			}
			v.HandleEvent(ev)
		default:
			drained = true
		}
	}
	v.lastShow = time.Now()
	return nil
}

func (v *View) Done() bool { return v.quit }

// Close restores the terminal.
func (v *View) Close() {
	if v.closed {
		return
	}
	v.closed = true
	close(v.done)
	// ChannelEvents closes events once it has stopped.
	for range v.events {
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	v.screen.Fini()
}

func (v *View) draw(img *image.RGBA) {
	b := img.Bounds()
	for y := 0; y+1 < b.Dy(); y += 2 {
		for x := 0; x < b.Dx(); x++ {
			top := img.RGBAAt(x, y)
			bottom := img.RGBAAt(x, y+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			v.screen.SetContent(x, y/2, upperHalfBlock, nil, style)
		}
	}
}

// HandleEvent feeds one terminal event to the camera.
func (v *View) HandleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
	case *tcell.EventKey:
		v.handleKey(ev)
	case *tcell.EventMouse:
		v.handleMouse(ev)
	}
}

func (v *View) handleKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.quit = true
		return
	case tcell.KeyRune:
	default:
		return
	}
	switch ev.Rune() {
	case 'q':
		v.quit = true
	case 'r':
		v.cam.Reset()
	case '+', '=':
		v.cam.Handle(camera.Wheel{DeltaY: -wheelStep})
	case '-':
		v.cam.Handle(camera.Wheel{DeltaY: wheelStep})
	}
}

func (v *View) handleMouse(ev *tcell.EventMouse) {
	cx, cy := ev.Position()
	x, y := CellToPixel(cx, cy)
	buttons := ev.Buttons()
	prev := v.buttons
	v.buttons = buttons & tcell.Button1

	switch {
	case buttons&tcell.Button1 != 0 && prev&tcell.Button1 == 0:
		v.cam.Handle(camera.PointerDown{X: x, Y: y})
	case buttons&tcell.Button1 == 0 && prev&tcell.Button1 != 0:
		v.cam.Handle(camera.PointerUp{})
	default:
		v.cam.Handle(camera.PointerMove{X: x, Y: y})
	}

	if buttons&tcell.WheelUp != 0 {
		v.cam.Handle(camera.Wheel{DeltaY: -wheelStep})
	}
	if buttons&tcell.WheelDown != 0 {
		v.cam.Handle(camera.Wheel{DeltaY: wheelStep})
	}
}

// CellToPixel maps a cell to the centre of its two-pixel block.
func CellToPixel(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row)*2 + 1
}

func sameSize(r *softrender.Renderer, w, h int) bool {
	rw, rh := r.Size()
	return rw == w && rh == h
}
