// Package shading is the per-pixel black hole model: gravitational lensing,
// the rotating accretion disk, the photon ring, the event-horizon shadow
// and the starfield behind them.
//
// It is the CPU reference for the GLSL kernel in package shader; both read
// the same scene.Config. Colours are HDR and may exceed 1 until the post
// pipeline tone maps them.
package shading

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/noise"
	"github.com/keshavsharma54126/goblackhole/postfx"
	"github.com/keshavsharma54126/goblackhole/scene"
)

// Model evaluates one scene configuration.
type Model struct {
	cfg scene.Config
}

// New validates cfg and returns a model for it.
func New(cfg scene.Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	return &Model{cfg: cfg}, nil
}

// Config returns the model's configuration.
func (m *Model) Config() scene.Config { return m.cfg }

// Lens pulls p radially inward by k/(r+ε), strongest near the centre.
// Close enough to the centre the displacement exceeds r and the point flips
// to the opposite side, which is what produces the secondary image.
func (m *Model) Lens(p mgl64.Vec2) mgl64.Vec2 {
	r := p.Len()
	if r == 0 {
		return p
	}
	distortion := m.cfg.LensStrength / (r + m.cfg.LensEpsilon)
	// Normalize component-wise: distortion/r overflows for subnormal r.
	dir := mgl64.Vec2{p[0] / r, p[1] / r}
	return p.Sub(dir.Mul(distortion))
}

// ShadowMask is 1 inside the event horizon, 0 well outside it, with the
// configured edge profile in between.
func (m *Model) ShadowMask(r float64) float64 {
	rs := m.cfg.Rs
	if r < rs {
		return 1
	}
	soft := m.cfg.ShadowSoftness
	if soft == 0 {
		return 0
	}
	outer := smoothstep(rs+soft, rs, r)
	if m.cfg.Shadow == scene.ShadowDual {
		inner := smoothstep(rs+soft*0.3, rs, r)
		return outer + (1-outer)*inner
	}
	return outer
}

// RingWidth is the photon ring half-width in world units. It is a fixed
// screen-space width divided by zoom, floored so the ring never vanishes.
func (m *Model) RingWidth(zoom float64) float64 {
	return math.Max(m.cfg.RingWidthFloor, m.cfg.RingWidthCoeff/zoom)
}

// Ring returns the photon ring contribution at p.
func (m *Model) Ring(p mgl64.Vec2, zoom float64) mgl64.Vec3 {
	r := p.Len()
	w := m.RingWidth(zoom)
	d := math.Abs(r - m.cfg.RingRadius())

	var ring float64
	switch m.cfg.RingProfile {
	case scene.RingGaussian:
		x := d / w
		ring = math.Exp(-x * x)
	default:
		ring = 1 - smoothstep(0, w, d)
	}
	if a := m.cfg.RingAsymmetry; a != 0 {
		ring *= 1 + a*math.Sin(math.Atan2(p[1], p[0])+m.cfg.BeamingPhase)
	}
	return m.cfg.RingColor.Mul(ring * m.cfg.RingGain)
}

// Blackbody maps a normalized temperature to colour by summing the ramp's
// smoothstep-windowed stops.
func (m *Model) Blackbody(x float64) mgl64.Vec3 {
	var col mgl64.Vec3
	for _, s := range m.cfg.Blackbody {
		col = col.Add(s.Color.Mul(smoothstep(s.Lo, s.Hi, x)))
	}
	return col
}

// DetailScale grows logarithmically with zoom so the disk's apparent noise
// frequency stays roughly constant on screen.
func (m *Model) DetailScale(zoom float64) float64 {
	return 1 + math.Log(zoom+1)*m.cfg.DetailZoomGain
}

// Doppler is the beaming factor at disk angle da. The approaching side
// (positive sine) is brighter and bluer.
func (m *Model) Doppler(da float64) float64 {
	return 1 + m.cfg.BeamingGain*math.Sin(da+m.cfg.BeamingPhase)
}

// Disk shades the accretion disk at an already lensed point. The result is
// split into the far half (behind the hole) and the near half; without
// DepthSplit everything is reported as far.
func (m *Model) Disk(lensed mgl64.Vec2, t, zoom float64) (far, near mgl64.Vec3) {
	c := &m.cfg
	diskUV := mgl64.Vec2{lensed[0], lensed[1] * c.Inclination}
	dr := diskUV.Len()
	da := math.Atan2(diskUV[1], diskUV[0])

	inner, outer := c.InnerRadius(), c.OuterRadius()
	if dr <= inner || dr >= outer {
		return far, near
	}

	// Keplerian: angular speed falls off as r^-1/2.
	speed := c.KeplerSpeed / math.Sqrt(dr)
	angle := da - t*speed

	detail := m.DetailScale(zoom)
	plasma := c.Noise.Warped(mgl64.Vec2{dr * c.DetailBase * detail, angle * c.AngularDetail})
	plasma += c.Noise.FBM(mgl64.Vec2{dr * c.FlowRadial * detail, angle * c.FlowAngular}) * c.FlowGain

	doppler := m.Doppler(da)

	temp := math.Pow(1-(dr-inner)/(outer-inner), c.GradientExponent)
	col := m.Blackbody(temp * doppler)

	intensity := math.Pow(doppler, c.BeamingExponent)

	alpha := smoothstep(outer, outer-c.OuterFade, dr)
	alpha *= smoothstep(inner, inner+c.InnerFade, dr)

	col = col.Mul(intensity * (c.PlasmaBase + c.PlasmaGain*plasma) * alpha * c.DiskGain)
	if c.DepthSplit && lensed[1] < 0 {
		return far, col
	}
	return col, near
}

// Shade returns the foreground at world point p: disk, ring and shadow.
// Inside the event horizon the result is exactly black.
func (m *Model) Shade(p mgl64.Vec2, t, zoom float64) mgl64.Vec3 {
	r := p.Len()
	if r < m.cfg.Rs {
		return mgl64.Vec3{}
	}
	far, near := m.Disk(m.Lens(p), t, zoom)
	back := far.Add(m.Ring(p, zoom))
	// Shadow occludes the far disk and ring; the near disk sits on top.
	return back.Mul(1 - m.ShadowMask(r)).Add(near)
}

// Stars returns the lensed starfield at world point p.
func (m *Model) Stars(p mgl64.Vec2, t float64) mgl64.Vec3 {
	c := &m.cfg
	sp := m.Lens(p).Mul(c.StarScale * c.StarCells)
	cell := mgl64.Vec2{math.Floor(sp[0]), math.Floor(sp[1])}

	s := noise.Hash(cell)
	if s <= c.StarThreshold {
		return mgl64.Vec3{}
	}
	intensity := (s - c.StarThreshold) * c.StarGain
	// Each star's own hash offsets its twinkle phase.
	intensity *= (1 - c.TwinkleDepth) + c.TwinkleDepth*math.Sin(t*c.TwinkleSpeed+s*100)

	d := sp.Sub(cell).Sub(mgl64.Vec2{0.5, 0.5}).Len()
	intensity *= smoothstep(c.StarRadius, 0, d)

	tint := mixVec3(c.StarWarm, c.StarCool, noise.Hash(cell.Add(starTintOffset)))
	return tint.Mul(intensity)
}

// WorldPoint maps a fragment coordinate (origin bottom-left, pixel centres
// at +0.5) to the centred screen coordinate uv and the world point p.
func WorldPoint(frag mgl64.Vec2, u *frame.Uniforms) (uv, p mgl64.Vec2) {
	res := u.Resolution
	uv = mgl64.Vec2{
		(frag[0] - 0.5*res[0]) / res[1],
		(frag[1] - 0.5*res[1]) / res[1],
	}
	p = uv.Mul(1 / u.Zoom).Add(u.Camera)
	return uv, p
}

// Composite layers the starfield behind the foreground. The shadow mask
// hides stars wherever the horizon does.
func (m *Model) Composite(p mgl64.Vec2, t, zoom float64) mgl64.Vec3 {
	if p.Len() < m.cfg.Rs {
		return mgl64.Vec3{}
	}
	bg := m.Stars(p, t)
	fg := m.Shade(p, t, zoom)
	mask := m.ShadowMask(p.Len())
	return bg.Mul(1 - mask).Add(fg)
}

// Pixel computes the final display colour of one fragment, post-processed
// and in [0,1]. Any fragment inside the event horizon is pure black.
func (m *Model) Pixel(frag mgl64.Vec2, u *frame.Uniforms) mgl64.Vec4 {
	uv, p := WorldPoint(frag, u)
	if p.Len() < m.cfg.Rs {
		return mgl64.Vec4{0, 0, 0, 1}
	}
	col := m.Composite(p, u.Time, u.Zoom)
	col = m.cfg.Post.Apply(col, uv, u.Time)
	return mgl64.Vec4{saturate(col[0]), saturate(col[1]), saturate(col[2]), 1}
}

var starTintOffset = mgl64.Vec2{17.13, 31.71}

func smoothstep(e0, e1, x float64) float64 {
	return postfx.Smoothstep(e0, e1, x)
}

func mixVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Mul(1 - t).Add(b.Mul(t))
}

func saturate(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
