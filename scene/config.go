// Package scene defines the immutable configuration of a rendered black
// hole and the named presets that ship with the viewer.
package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/noise"
	"github.com/keshavsharma54126/goblackhole/postfx"
)

// ErrUnknownPreset is returned by Lookup for names with no preset.
var ErrUnknownPreset = errors.New("unknown scene preset")

// RingProfile selects the photon ring's radial profile.
type RingProfile int

const (
	RingSmoothstep RingProfile = iota
	RingGaussian
)

// ShadowMode selects how the event-horizon edge is drawn.
type ShadowMode int

const (
	// ShadowSingle is a single smoothstep from rs+softness down to rs.
	ShadowSingle ShadowMode = iota
	// ShadowDual adds a second, tighter threshold inside the first so the
	// edge keeps a faint penumbra but reaches full black sooner.
	ShadowDual
)

// Stop is one additive band of the blackbody ramp: Color weighted by
// smoothstep(Lo, Hi, t).
type Stop struct {
	Color  mgl64.Vec3
	Lo, Hi float64
}

// Config is one parameterization of the shading model. All lengths are in
// world units unless they are multipliers of Rs.
type Config struct {
	Name string

	Rs           float64
	LensStrength float64
	LensEpsilon  float64

	// Inclination squashes the lensed y coordinate to fake a tilted disk.
	Inclination float64
	DiskInner   float64
	DiskOuter   float64
	KeplerSpeed float64

	DetailBase     float64
	DetailZoomGain float64
	AngularDetail  float64
	FlowRadial     float64
	FlowAngular    float64
	FlowGain       float64

	BeamingPhase     float64
	BeamingGain      float64
	BeamingExponent  float64
	GradientExponent float64
	Blackbody        []Stop

	DiskGain   float64
	PlasmaBase float64
	PlasmaGain float64
	// OuterFade is an absolute width in disk space; InnerFade likewise.
	OuterFade  float64
	InnerFade  float64

	// DepthSplit draws the near half of the disk (below the hole) over the
	// shadow edge instead of behind it.
	DepthSplit bool

	PhotonMult     float64
	RingWidthCoeff float64
	RingWidthFloor float64
	RingColor      mgl64.Vec3
	RingGain       float64
	RingProfile    RingProfile
	RingAsymmetry  float64

	Shadow         ShadowMode
	ShadowSoftness float64

	StarScale     float64
	StarCells     float64
	StarThreshold float64
	StarGain      float64
	StarRadius    float64
	TwinkleSpeed  float64
	TwinkleDepth  float64
	StarWarm      mgl64.Vec3
	StarCool      mgl64.Vec3

	Noise noise.Params
	Post  postfx.Pipeline
}

// Validate rejects configurations the shading model cannot render.
func (c *Config) Validate() error {
	switch {
	case c.Rs <= 0:
		return fmt.Errorf("%s: rs must be positive, got %v", c.Name, c.Rs)
	case c.DiskInner <= 0 || c.DiskOuter <= c.DiskInner:
		return fmt.Errorf("%s: disk bounds [%v, %v] invalid", c.Name, c.DiskInner, c.DiskOuter)
	case c.Inclination < 1:
		return fmt.Errorf("%s: inclination %v must be >= 1", c.Name, c.Inclination)
	case c.LensEpsilon <= 0:
		return fmt.Errorf("%s: lens epsilon must be positive", c.Name)
	case c.RingWidthFloor <= 0 || c.RingWidthCoeff <= 0:
		return fmt.Errorf("%s: ring width coefficients must be positive", c.Name)
	case c.PhotonMult <= 1:
		return fmt.Errorf("%s: photon ring at %v rs would sit inside the shadow", c.Name, c.PhotonMult)
	case c.Noise.Octaves < 1:
		return fmt.Errorf("%s: need at least one noise octave", c.Name)
	case len(c.Blackbody) == 0:
		return fmt.Errorf("%s: blackbody ramp is empty", c.Name)
	case c.StarThreshold <= 0 || c.StarThreshold >= 1:
		return fmt.Errorf("%s: star threshold %v outside (0,1)", c.Name, c.StarThreshold)
	case c.ShadowSoftness < 0:
		return fmt.Errorf("%s: shadow softness must not be negative", c.Name)
	}
	for i, s := range c.Blackbody {
		if s.Hi <= s.Lo {
			return fmt.Errorf("%s: blackbody stop %d has empty window [%v, %v]", c.Name, i, s.Lo, s.Hi)
		}
	}
	return nil
}

// InnerRadius and OuterRadius are the disk band edges in disk space.
func (c *Config) InnerRadius() float64 { return c.Rs * c.DiskInner }
func (c *Config) OuterRadius() float64 { return c.Rs * c.DiskOuter }

// RingRadius is where the photon ring peaks.
func (c *Config) RingRadius() float64 { return c.Rs * c.PhotonMult }

var presets = map[string]Config{}

func register(c Config) {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	presets[c.Name] = c
}

// Lookup returns a copy of the named preset.
func Lookup(name string) (Config, error) {
	c, ok := presets[name]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, Names())
	}
	c.Blackbody = append([]Stop(nil), c.Blackbody...)
	return c, nil
}

// Names lists the registered presets in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
