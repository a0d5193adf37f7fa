// Package softrender evaluates the shading model on the CPU. It backs the
// headless modes, where no GL context is available.
package softrender

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/shading"
)

// FrameSink receives each finished frame, e.g. a video encoder.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
}

// Renderer is a fixed-size frame.Target that shades into an image.RGBA.
type Renderer struct {
	model *shading.Model
	pool  *WorkerPool
	img   *image.RGBA
	tiles []image.Rectangle
	sink  FrameSink
}

// New returns a renderer for a width×height image. sink may be nil.
func New(model *shading.Model, width, height, workers int, sink FrameSink) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	return &Renderer{
		model: model,
		pool:  NewWorkerPool(workers),
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		tiles: NewTiles(width, height, DefaultTileSize),
		sink:  sink,
	}, nil
}

// Image returns the most recently rendered frame. It is overwritten by the
// next Render.
func (r *Renderer) Image() *image.RGBA { return r.img }

func (r *Renderer) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Render shades every pixel of the frame.
func (r *Renderer) Render(u *frame.Uniforms) error {
	height := float64(r.img.Bounds().Dy())
	r.pool.Do(r.tiles, func(bounds image.Rectangle) {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			// Image rows run top-down; fragment coordinates bottom-up.
			fy := height - float64(y) - 0.5
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				c := r.model.Pixel(mgl64.Vec2{float64(x) + 0.5, fy}, u)
				i := r.img.PixOffset(x, y)
				r.img.Pix[i+0] = toByte(c[0])
				r.img.Pix[i+1] = toByte(c[1])
				r.img.Pix[i+2] = toByte(c[2])
				r.img.Pix[i+3] = toByte(c[3])
			}
		}
	})
	return nil
}

// Present hands the frame to the sink, if any.
func (r *Renderer) Present() error {
	if r.sink == nil {
		return nil
	}
	return r.sink.WriteFrame(r.img)
}

func (r *Renderer) Done() bool { return false }

// Close stops the worker pool.
func (r *Renderer) Close() {
	r.pool.Stop()
}

func toByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
