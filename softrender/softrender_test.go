package softrender

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/scene"
	"github.com/keshavsharma54126/goblackhole/shading"
)

func newModel(t *testing.T, preset string) *shading.Model {
	t.Helper()
	cfg, err := scene.Lookup(preset)
	if err != nil {
		t.Fatal(err)
	}
	m, err := shading.New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestTilesCoverImageOnce(t *testing.T) {
	for _, c := range []struct{ w, h, size int }{
		{64, 48, 32},
		{100, 37, 16},
		{1, 1, 32},
		{33, 65, 32},
	} {
		counts := make([]int, c.w*c.h)
		for _, tile := range NewTiles(c.w, c.h, c.size) {
			if tile.Dx() > c.size || tile.Dy() > c.size {
				t.Errorf("%v: tile %v larger than %d", c, tile, c.size)
			}
			for y := tile.Min.Y; y < tile.Max.Y; y++ {
				for x := tile.Min.X; x < tile.Max.X; x++ {
					counts[y*c.w+x]++
				}
			}
		}
		for i, n := range counts {
			if n != 1 {
				t.Fatalf("%v: pixel %d covered %d times", c, i, n)
			}
		}
	}
}

func TestCentrePixelIsBlack(t *testing.T) {
	r, err := New(newModel(t, scene.DefaultPreset), 64, 48, 4, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	u := &frame.Uniforms{Resolution: mgl64.Vec2{64, 48}, Zoom: 1}
	if err := r.Render(u); err != nil {
		t.Fatal(err)
	}
	got := r.Image().RGBAAt(32, 24)
	if got.R != 0 || got.G != 0 || got.B != 0 || got.A != 255 {
		t.Errorf("centre pixel = %v, want opaque black", got)
	}

	var lit bool
	for _, v := range r.Image().Pix {
		if v != 0 && v != 255 {
			lit = true
			break
		}
	}
	if !lit {
		t.Error("frame has no shaded pixels outside the shadow")
	}
}

func TestWorkerCountDoesNotChangeOutput(t *testing.T) {
	m := newModel(t, "cinematic")
	u := &frame.Uniforms{Resolution: mgl64.Vec2{80, 60}, Time: 2, Zoom: 1.3, Camera: mgl64.Vec2{0.02, 0.01}}

	var frames [][]byte
	for _, workers := range []int{1, 3, 8} {
		r, err := New(m, 80, 60, workers, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := r.Render(u); err != nil {
			t.Fatal(err)
		}
		frames = append(frames, append([]byte(nil), r.Image().Pix...))
		r.Close()
	}
	for i := 1; i < len(frames); i++ {
		if !bytes.Equal(frames[0], frames[i]) {
			t.Errorf("output with worker set %d differs from single worker", i)
		}
	}
}

type recordingSink struct {
	frames int
	err    error
}

func (s *recordingSink) WriteFrame(img *image.RGBA) error {
	s.frames++
	return s.err
}

func TestPresentWritesToSink(t *testing.T) {
	sink := &recordingSink{}
	r, err := New(newModel(t, scene.DefaultPreset), 8, 8, 1, sink)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	for i := 0; i < 3; i++ {
		if err := r.Present(); err != nil {
			t.Fatal(err)
		}
	}
	if sink.frames != 3 {
		t.Errorf("sink saw %d frames, want 3", sink.frames)
	}
	sink.err = errors.New("broken pipe")
	if err := r.Present(); !errors.Is(err, sink.err) {
		t.Errorf("Present = %v, want sink error", err)
	}
}

func TestNewRejectsEmptyFrame(t *testing.T) {
	if _, err := New(newModel(t, scene.DefaultPreset), 0, 10, 1, nil); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestToByte(t *testing.T) {
	for _, c := range []struct {
		in   float64
		want uint8
	}{{-1, 0}, {0, 0}, {0.5, 128}, {1, 255}, {2, 255}} {
		if got := toByte(c.in); got != c.want {
			t.Errorf("toByte(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}
