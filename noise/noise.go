// Package noise implements the deterministic value noise used by the
// accretion disk and starfield: a position hash, bilinear value noise,
// rotated fractal sums and two-stage domain warping.
//
// Everything here is a pure function of position. Animation is produced by
// moving the sample point, never by feeding time into the noise.
package noise

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Params controls the fractal sum.
type Params struct {
	Octaves     int
	Lacunarity  float64
	Persistence float64
	// Rotation is applied to the sample coordinate between octaves, in radians.
	Rotation float64
}

// DefaultParams matches the shader's fbm loop.
var DefaultParams = Params{
	Octaves:     6,
	Lacunarity:  2.01,
	Persistence: 0.5,
	Rotation:    0.5,
}

// Offsets used by Warped for the q and r stages.
var (
	warpOffset1 = mgl64.Vec2{5.2, 1.3}
	warpOffset2 = mgl64.Vec2{1.7, 9.2}
	warpOffset3 = mgl64.Vec2{8.3, 2.8}
)

const warpFactor = 4.0

// Fract returns the fractional part of x as GLSL defines it: x - floor(x).
func Fract(x float64) float64 {
	f := x - math.Floor(x)
	// Tiny negative inputs round up to exactly 1.
	if f >= 1 {
		return 0
	}
	return f
}

// Hash maps a position to a pseudo-random value in [0,1).
func Hash(p mgl64.Vec2) float64 {
	x := Fract(p[0] * 123.34)
	y := Fract(p[1] * 456.21)
	d := x*(x+45.32) + y*(y+45.32)
	x += d
	y += d
	return Fract(x * y)
}

// ValueNoise interpolates Hash at the four surrounding lattice points with
// a 3t²-2t³ weighting so the result is C¹ continuous.
func ValueNoise(p mgl64.Vec2) float64 {
	ix, iy := math.Floor(p[0]), math.Floor(p[1])
	fx, fy := p[0]-ix, p[1]-iy
	fx = fx * fx * (3 - 2*fx)
	fy = fy * fy * (3 - 2*fy)

	a := Hash(mgl64.Vec2{ix, iy})
	b := Hash(mgl64.Vec2{ix + 1, iy})
	c := Hash(mgl64.Vec2{ix, iy + 1})
	d := Hash(mgl64.Vec2{ix + 1, iy + 1})

	return mix(mix(a, b, fx), mix(c, d, fx), fy)
}

// FBM sums Octaves layers of ValueNoise. The first octave has amplitude 0.5.
func (np Params) FBM(p mgl64.Vec2) float64 {
	s, c := math.Sincos(np.Rotation)
	v := 0.0
	a := 0.5
	for i := 0; i < np.Octaves; i++ {
		v += a * ValueNoise(p)
		// GLSL mat2(c,-s,s,c) * p, column-major.
		p = mgl64.Vec2{c*p[0] + s*p[1], -s*p[0] + c*p[1]}.Mul(np.Lacunarity)
		a *= np.Persistence
	}
	return v
}

// Warped returns fbm(p + 4r) where r and q are themselves fbm-displaced
// samples of p.
func (np Params) Warped(p mgl64.Vec2) float64 {
	q := mgl64.Vec2{
		np.FBM(p),
		np.FBM(p.Add(warpOffset1)),
	}
	pq := p.Add(q.Mul(warpFactor))
	r := mgl64.Vec2{
		np.FBM(pq.Add(warpOffset2)),
		np.FBM(pq.Add(warpOffset3)),
	}
	return np.FBM(p.Add(r.Mul(warpFactor)))
}

// MaxAmplitude is the upper bound of FBM for these params.
func (np Params) MaxAmplitude() float64 {
	total := 0.0
	a := 0.5
	for i := 0; i < np.Octaves; i++ {
		total += a
		a *= np.Persistence
	}
	return total
}

func mix(a, b, t float64) float64 {
	return a*(1-t) + b*t
}
