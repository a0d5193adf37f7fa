// Package postfx is the single-pass optical post-processing chain applied
// to the composited HDR colour: chromatic aberration, bloom, film grain,
// tone mapping, contrast gamma and vignette, always in that order.
package postfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/noise"
)

// Pipeline holds the post-processing coefficients.
type Pipeline struct {
	Aberration     float64
	BloomThreshold float64
	BloomGain      float64
	GrainScale     float64
	GrainAmount    float64
	Exposure       float64
	// Gamma of 0 or 1 disables the contrast stage.
	Gamma    float64
	Vignette float64
}

// Default is the post chain of the photoreal preset.
var Default = Pipeline{
	Aberration:     0.003,
	BloomThreshold: 1.0,
	BloomGain:      0.4,
	GrainScale:     5.0,
	GrainAmount:    0.04,
	Exposure:       1.2,
	Gamma:          0,
	Vignette:       0.5,
}

// Apply runs every stage on col. uv is the centred, height-normalized
// screen coordinate and t the elapsed time in seconds.
func (pp Pipeline) Apply(col mgl64.Vec3, uv mgl64.Vec2, t float64) mgl64.Vec3 {
	col = pp.Aberrate(col, uv)
	col = pp.Bloom(col)
	col = pp.Grain(col, uv, t)
	col = pp.ToneMap(col)
	col = pp.Contrast(col)
	return pp.Vignetting(col, uv)
}

// Aberrate pushes red up and blue down in proportion to distance from the
// centre, a cheap stand-in for lens dispersion.
func (pp Pipeline) Aberrate(col mgl64.Vec3, uv mgl64.Vec2) mgl64.Vec3 {
	ca := uv.Len() * pp.Aberration
	return mgl64.Vec3{col[0] + ca, col[1], col[2] - ca}
}

// Bloom adds back the part of each channel above the threshold.
func (pp Pipeline) Bloom(col mgl64.Vec3) mgl64.Vec3 {
	for i := range col {
		col[i] += math.Max(0, col[i]-pp.BloomThreshold) * pp.BloomGain
	}
	return col
}

// Grain adds zero-mean hash noise keyed by screen position and time.
func (pp Pipeline) Grain(col mgl64.Vec3, uv mgl64.Vec2, t float64) mgl64.Vec3 {
	p := uv.Mul(pp.GrainScale).Add(mgl64.Vec2{t, t})
	g := (noise.Hash(p) - 0.5) * pp.GrainAmount
	return mgl64.Vec3{col[0] + g, col[1] + g, col[2] + g}
}

// ToneMap compresses HDR values with 1 - exp(-c*exposure).
func (pp Pipeline) ToneMap(col mgl64.Vec3) mgl64.Vec3 {
	for i := range col {
		col[i] = 1 - math.Exp(-col[i]*pp.Exposure)
	}
	return col
}

// Contrast raises each channel to Gamma.
func (pp Pipeline) Contrast(col mgl64.Vec3) mgl64.Vec3 {
	if pp.Gamma == 0 || pp.Gamma == 1 {
		return col
	}
	for i := range col {
		col[i] = math.Pow(math.Max(col[i], 0), pp.Gamma)
	}
	return col
}

// Vignetting darkens toward the edges of the frame.
func (pp Pipeline) Vignetting(col mgl64.Vec3, uv mgl64.Vec2) mgl64.Vec3 {
	vig := Smoothstep(0, 1, 1-uv.Len()*pp.Vignette)
	return col.Mul(vig)
}

// Smoothstep is GLSL smoothstep. Equal edges degrade to a step at edge0,
// and reversed edges give the mirrored curve as GLSL implementations do.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	t = math.Max(0, math.Min(1, t))
	return t * t * (3 - 2*t)
}
