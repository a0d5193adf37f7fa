package frame

import "time"

// Clock supplies the animation time for each frame.
type Clock interface {
	// Tick returns seconds since the clock started, for the frame about to
	// be rendered. Successive calls never go backwards.
	Tick() float64
}

// WallClock follows real time. Interactive modes use it.
type WallClock struct {
	start time.Time
	last  float64
}

// NewWallClock returns a clock whose zero is now.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Tick() float64 {
	t := time.Since(c.start).Seconds()
	if t < c.last {
		t = c.last
	}
	c.last = t
	return t
}

// FixedClock advances exactly 1/FPS per tick, independent of how long a
// frame takes to render. Recording uses it so output timing is exact.
type FixedClock struct {
	FPS   float64
	frame int64
}

func NewFixedClock(fps float64) *FixedClock {
	return &FixedClock{FPS: fps}
}

func (c *FixedClock) Tick() float64 {
	t := float64(c.frame) / c.FPS
	c.frame++
	return t
}
