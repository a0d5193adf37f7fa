package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/noise"
	"github.com/keshavsharma54126/goblackhole/postfx"
)

// DefaultPreset is the preset used when none is named.
const DefaultPreset = "photoreal"

var defaultBlackbody = []Stop{
	{Color: mgl64.Vec3{0.5, 0.0, 0.0}, Lo: 0.0, Hi: 0.1},  // deep red
	{Color: mgl64.Vec3{0.8, 0.3, 0.0}, Lo: 0.05, Hi: 0.4}, // orange
	{Color: mgl64.Vec3{1.0, 0.8, 0.4}, Lo: 0.3, Hi: 0.8},  // gold
	{Color: mgl64.Vec3{1.0, 1.0, 1.0}, Lo: 0.7, Hi: 1.0},  // white
	{Color: mgl64.Vec3{0.5, 0.7, 1.0}, Lo: 0.95, Hi: 1.2}, // blue-white
}

func photoreal() Config {
	return Config{
		Name:         "photoreal",
		Rs:           0.25,
		LensStrength: 0.085,
		LensEpsilon:  0.001,

		Inclination: 4.0,
		DiskInner:   2.2,
		DiskOuter:   8.0,
		KeplerSpeed: 3.5,

		DetailBase:     5.0,
		DetailZoomGain: 0.08,
		AngularDetail:  2.0,
		FlowRadial:     15.0,
		FlowAngular:    8.0,
		FlowGain:       0.3,

		BeamingPhase:     0.2,
		BeamingGain:      0.6,
		BeamingExponent:  4.0,
		GradientExponent: 1.2,
		Blackbody:        defaultBlackbody,

		DiskGain:   3.0,
		PlasmaBase: 0.5,
		PlasmaGain: 0.8,
		OuterFade:  2.0,
		InnerFade:  0.15,

		PhotonMult:     1.55,
		RingWidthCoeff: 0.003,
		RingWidthFloor: 0.0005,
		RingColor:      mgl64.Vec3{1.2, 1.1, 1.0},
		RingGain:       6.0,
		RingProfile:    RingSmoothstep,

		Shadow:         ShadowSingle,
		ShadowSoftness: 0.005,

		StarScale:     4.0,
		StarCells:     20.0,
		StarThreshold: 0.992,
		StarGain:      100.0,
		StarRadius:    0.35,
		TwinkleSpeed:  2.0,
		TwinkleDepth:  0.2,
		StarWarm:      mgl64.Vec3{1.0, 0.8, 0.6},
		StarCool:      mgl64.Vec3{0.6, 0.8, 1.0},

		Noise: noise.DefaultParams,
		Post:  postfx.Default,
	}
}

func classic() Config {
	c := photoreal()
	c.Name = "classic"
	c.Rs = 0.3
	c.Inclination = 3.0
	c.DiskInner = 2.6
	c.DiskOuter = 6.5
	c.KeplerSpeed = 3.0
	c.BeamingExponent = 3.5
	c.BeamingGain = 0.5
	c.DetailZoomGain = 0.05
	c.Noise.Octaves = 5
	c.RingProfile = RingSmoothstep
	c.RingWidthCoeff = 0.004
	c.Shadow = ShadowSingle
	c.ShadowSoftness = 0
	c.Post.BloomGain = 0.3
	c.Post.GrainAmount = 0.03
	return c
}

func cinematic() Config {
	c := photoreal()
	c.Name = "cinematic"
	c.Inclination = 5.0
	c.DiskInner = 2.0
	c.DiskOuter = 9.0
	c.KeplerSpeed = 4.0
	c.BeamingExponent = 4.0
	c.BeamingGain = 0.7
	c.DetailZoomGain = 0.11
	c.GradientExponent = 1.4
	c.Noise.Octaves = 7
	c.DepthSplit = true
	c.RingProfile = RingGaussian
	c.RingWidthCoeff = 0.0025
	c.RingWidthFloor = 0.0004
	c.RingAsymmetry = 0.35
	c.Shadow = ShadowDual
	c.ShadowSoftness = 0.008
	c.Post.Exposure = 1.35
	c.Post.Gamma = 1.1
	c.Post.Vignette = 0.6
	c.Post.BloomGain = 0.5
	return c
}

func init() {
	register(photoreal())
	register(classic())
	register(cinematic())
}
