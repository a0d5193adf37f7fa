package options

import (
	"fmt"
	"time"

	"github.com/keshavsharma54126/goblackhole/encoder"
)

// Modes accepted by -mode.
const (
	ModeWindow   = "window"
	ModeRecord   = "record"
	ModeTerm     = "term"
	ModeSnapshot = "snapshot"
)

// Options holds the command-line settings. Fields are pointers so they can
// be bound directly to flag definitions.
type Options struct {
	Help       *bool
	Mode       *string
	Preset     *string
	Width      *int
	Height     *int
	Duration   *float64
	FPS        *int
	OutputFile *string
	FFMPEGPath *string
	Codec      *string
	Zoom       *float64
	CameraX    *float64
	CameraY    *float64
	Time       *float64
	Workers    *int
}

// Validate checks the values that do not depend on a preset.
func (o *Options) Validate() error {
	switch *o.Mode {
	case ModeWindow, ModeRecord, ModeTerm, ModeSnapshot:
	default:
		return fmt.Errorf("unknown mode %q", *o.Mode)
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.FPS <= 0 {
		return fmt.Errorf("invalid fps %d", *o.FPS)
	}
	if *o.Mode == ModeRecord && *o.Duration <= 0 {
		return fmt.Errorf("record duration must be positive, got %v", *o.Duration)
	}
	switch *o.Codec {
	case encoder.CodecH264, encoder.CodecHEVC:
	default:
		return fmt.Errorf("unknown codec %q, want %s or %s", *o.Codec, encoder.CodecH264, encoder.CodecHEVC)
	}
	if *o.Zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %v", *o.Zoom)
	}
	if *o.Time < 0 {
		return fmt.Errorf("time must not be negative, got %v", *o.Time)
	}
	return nil
}

// TotalFrames is the number of frames a recording of Duration produces.
func (o *Options) TotalFrames() int64 {
	return int64(*o.Duration * float64(*o.FPS))
}

// FrameInterval is the time between frames at FPS.
func (o *Options) FrameInterval() time.Duration {
	return time.Second / time.Duration(*o.FPS)
}
