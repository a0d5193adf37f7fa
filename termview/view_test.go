package termview

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/camera"
	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/scene"
	"github.com/keshavsharma54126/goblackhole/shading"
)

func newTestView(t *testing.T, cols, rows int) (*View, tcell.SimulationScreen, *camera.Controller) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(cols, rows)

	cfg, err := scene.Lookup(scene.DefaultPreset)
	if err != nil {
		t.Fatal(err)
	}
	model, err := shading.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cam, err := camera.NewController(camera.DefaultSettings, mgl64.Vec2{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	v, err := New(screen, model, cam, time.Millisecond, 2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(v.Close)
	return v, screen, cam
}

func TestSizeIsTwoPixelsPerRow(t *testing.T) {
	v, _, _ := newTestView(t, 40, 12)
	if w, h := v.Size(); w != 40 || h != 24 {
		t.Errorf("Size = %dx%d, want 40x24", w, h)
	}
}

func TestRenderDrawsHalfBlocks(t *testing.T) {
	v, screen, _ := newTestView(t, 20, 10)
	u := &frame.Uniforms{Resolution: mgl64.Vec2{20, 20}, Zoom: 1}
	if err := v.Render(u); err != nil {
		t.Fatal(err)
	}
	if err := v.Present(); err != nil {
		t.Fatal(err)
	}

	cells, width, _ := screen.GetContents()
	centre := cells[5*width+10]
	if len(centre.Runes) == 0 || centre.Runes[0] != upperHalfBlock {
		t.Fatalf("centre cell runes = %q", centre.Runes)
	}
	fg, bg, _ := centre.Style.Decompose()
	for _, c := range []tcell.Color{fg, bg} {
		if r, g, b := c.RGB(); r != 0 || g != 0 || b != 0 {
			t.Errorf("centre cell colour (%d,%d,%d), want black", r, g, b)
		}
	}
}

func TestMouseDragPans(t *testing.T) {
	v, _, cam := newTestView(t, 80, 24)
	cam.Handle(camera.Resize{Width: 80, Height: 48})

	v.HandleEvent(tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone))
	if cam.Gesture().Mode != camera.Panning {
		t.Fatalf("mode after press = %v", cam.Gesture().Mode)
	}
	v.HandleEvent(tcell.NewEventMouse(20, 5, tcell.Button1, tcell.ModNone))
	if x := cam.State().TargetPosition[0]; x >= 0 {
		t.Errorf("dragging right moved target x to %v, want negative", x)
	}
	v.HandleEvent(tcell.NewEventMouse(20, 5, tcell.ButtonNone, tcell.ModNone))
	if cam.Gesture().Mode != camera.Idle {
		t.Errorf("mode after release = %v", cam.Gesture().Mode)
	}
}

func TestWheelAndKeys(t *testing.T) {
	v, _, cam := newTestView(t, 20, 10)

	v.HandleEvent(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	if z := cam.State().TargetZoom; z <= 1 {
		t.Errorf("wheel up target zoom = %v, want > 1", z)
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if z := cam.State().TargetZoom; z != 1 {
		t.Errorf("target zoom after reset = %v", z)
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone))
	if z := cam.State().TargetZoom; z >= 1 {
		t.Errorf("target zoom after '-' = %v", z)
	}
	if v.Done() {
		t.Fatal("done before quitting")
	}
	v.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone))
	if !v.Done() {
		t.Error("q did not quit")
	}
}

func TestCellToPixel(t *testing.T) {
	if x, y := CellToPixel(3, 4); x != 3.5 || y != 9 {
		t.Errorf("CellToPixel(3,4) = (%v,%v)", x, y)
	}
}

func TestCloseStopsEventPumpWithFullQueue(t *testing.T) {
	v, screen, _ := newTestView(t, 10, 5)
	deadline := time.Now().Add(2 * time.Second)
	for len(v.events) < cap(v.events) && time.Now().Before(deadline) {
		_ = screen.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
	}
	if len(v.events) < cap(v.events) {
		t.Fatalf("queue holds %d of %d events", len(v.events), cap(v.events))
	}

	closed := make(chan struct{})
	go func() {
		v.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close blocked on the event pump")
	}
}

func TestNewRejectsZeroInterval(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	cfg, _ := scene.Lookup(scene.DefaultPreset)
	model, err := shading.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	cam, err := camera.NewController(camera.DefaultSettings, mgl64.Vec2{}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(screen, model, cam, 0, 1); err == nil {
		t.Error("expected an error for a zero frame interval")
	}
}
