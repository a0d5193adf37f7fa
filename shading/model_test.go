package shading

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/scene"
)

func mustModel(t *testing.T, preset string) *Model {
	t.Helper()
	cfg, err := scene.Lookup(preset)
	if err != nil {
		t.Fatal(err)
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func forEachPreset(t *testing.T, fn func(t *testing.T, m *Model)) {
	for _, name := range scene.Names() {
		t.Run(name, func(t *testing.T) { fn(t, mustModel(t, name)) })
	}
}

func TestShadowIsExactlyBlack(t *testing.T) {
	forEachPreset(t, func(t *testing.T, m *Model) {
		rs := m.Config().Rs
		for i := 0; i < 60; i++ {
			for j := 0; j < 60; j++ {
				p := mgl64.Vec2{(float64(i)/59*2 - 1) * rs, (float64(j)/59*2 - 1) * rs}
				if p.Len() >= rs {
					continue
				}
				for _, tm := range []float64{0, 1.3, 250} {
					for _, z := range []float64{0.4, 1, 10, 200} {
						if got := m.Shade(p, tm, z); got != (mgl64.Vec3{}) {
							t.Fatalf("Shade(%v, t=%v, z=%v) = %v, want black", p, tm, z, got)
						}
						if got := m.Composite(p, tm, z); got != (mgl64.Vec3{}) {
							t.Fatalf("Composite(%v) = %v, want black", p, got)
						}
					}
				}
			}
		}
		// Points just off the centre must not produce NaN through the lens.
		for _, p := range []mgl64.Vec2{{1e-320, 0}, {0, 1e-310}, {1e-308, 1e-308}, {-5e-324, 5e-324}} {
			if got := m.Composite(p, 1, 1); got != (mgl64.Vec3{}) {
				t.Errorf("Composite(%v) = %v, want black", p, got)
			}
			l := m.Lens(p)
			if math.IsNaN(l[0]) || math.IsNaN(l[1]) || math.IsInf(l[0], 0) || math.IsInf(l[1], 0) {
				t.Errorf("Lens(%v) = %v, want finite", p, l)
			}
		}
	})
}

func TestCentrePixelScenario(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	u := &frame.Uniforms{
		Resolution: mgl64.Vec2{800, 600},
		Time:       0,
		Zoom:       1,
	}
	uv, p := WorldPoint(mgl64.Vec2{400, 300}, u)
	if uv != (mgl64.Vec2{}) || p != (mgl64.Vec2{}) {
		t.Fatalf("centre maps to uv=%v p=%v, want origin", uv, p)
	}
	if got := m.Pixel(mgl64.Vec2{400, 300}, u); got != (mgl64.Vec4{0, 0, 0, 1}) {
		t.Errorf("centre pixel = %v, want (0,0,0,1)", got)
	}
}

func TestPixelInsideShadowAfterPan(t *testing.T) {
	m := mustModel(t, "cinematic")
	u := &frame.Uniforms{
		Resolution: mgl64.Vec2{640, 480},
		Time:       12.5,
		Zoom:       3,
		Camera:     mgl64.Vec2{0.05, -0.02},
	}
	for x := 0.5; x < 640; x += 7 {
		for y := 0.5; y < 480; y += 7 {
			_, p := WorldPoint(mgl64.Vec2{x, y}, u)
			if p.Len() >= m.Config().Rs {
				continue
			}
			if got := m.Pixel(mgl64.Vec2{x, y}, u); got != (mgl64.Vec4{0, 0, 0, 1}) {
				t.Fatalf("pixel (%v,%v) at p=%v = %v, want black", x, y, p, got)
			}
		}
	}
}

func TestPixelInDisplayRange(t *testing.T) {
	forEachPreset(t, func(t *testing.T, m *Model) {
		u := &frame.Uniforms{Resolution: mgl64.Vec2{160, 90}, Time: 3.7, Zoom: 1.5}
		for x := 0.5; x < 160; x += 3 {
			for y := 0.5; y < 90; y += 3 {
				c := m.Pixel(mgl64.Vec2{x, y}, u)
				for i := 0; i < 3; i++ {
					if math.IsNaN(c[i]) || c[i] < 0 || c[i] > 1 {
						t.Fatalf("pixel (%v,%v) channel %d = %v", x, y, i, c[i])
					}
				}
				if c[3] != 1 {
					t.Fatalf("alpha = %v", c[3])
				}
			}
		}
	})
}

func TestRingWidthScreenSpace(t *testing.T) {
	forEachPreset(t, func(t *testing.T, m *Model) {
		cfg := m.Config()
		for _, z := range []float64{1, 10, 100} {
			w := m.RingWidth(z)
			if w < cfg.RingWidthFloor {
				t.Errorf("zoom %v: width %v below floor", z, w)
			}
			screen := w * z
			if cfg.RingWidthCoeff/z > cfg.RingWidthFloor {
				if math.Abs(screen-cfg.RingWidthCoeff) > 1e-12 {
					t.Errorf("zoom %v: screen width %v, want constant %v", z, screen, cfg.RingWidthCoeff)
				}
			} else if w != cfg.RingWidthFloor {
				t.Errorf("zoom %v: width %v, want floor %v", z, w, cfg.RingWidthFloor)
			}
			if screen < cfg.RingWidthCoeff-1e-12 || screen > cfg.RingWidthFloor*100+1e-12 {
				t.Errorf("zoom %v: screen width %v outside [%v,%v]", z, screen, cfg.RingWidthCoeff, cfg.RingWidthFloor*100)
			}
		}
	})
}

func TestRingProfile(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	cfg := m.Config()
	R := cfg.RingRadius()
	peak := m.Ring(mgl64.Vec2{R, 0}, 1)
	if want := cfg.RingColor.Mul(cfg.RingGain); peak != want {
		t.Errorf("ring peak = %v, want %v", peak, want)
	}
	w := m.RingWidth(1)
	if got := m.Ring(mgl64.Vec2{R + 1.01*w, 0}, 1); got != (mgl64.Vec3{}) {
		t.Errorf("smoothstep ring past R+w = %v, want 0", got)
	}

	g := mustModel(t, "cinematic")
	gcfg := g.Config()
	gw := g.RingWidth(1)
	// Sample where the asymmetry term is neutral: sin(angle+phase) = 0.
	angle := -gcfg.BeamingPhase
	at := func(r float64) float64 {
		return g.Ring(mgl64.Vec2{r * math.Cos(angle), r * math.Sin(angle)}, 1)[0]
	}
	peakG := at(gcfg.RingRadius())
	if got, want := at(gcfg.RingRadius()+gw)/peakG, math.Exp(-1); math.Abs(got-want) > 1e-9 {
		t.Errorf("gaussian ring at R+w relative %v, want %v", got, want)
	}
}

func TestRingAloneOutsideDisk(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	cfg := m.Config()
	p := mgl64.Vec2{cfg.RingRadius(), 0}
	want := cfg.RingColor.Mul(cfg.RingGain)
	for _, z := range []float64{1, 10, 100} {
		if got := m.Shade(p, 0, z); got.Sub(want).Len() > 1e-12 {
			t.Errorf("zoom %v: Shade at ring peak = %v, want %v", z, got, want)
		}
	}
}

func TestLensPullsInward(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	cfg := m.Config()
	for _, r := range []float64{0.5, 1, 3} {
		p := mgl64.Vec2{r * 0.6, r * 0.8}
		l := m.Lens(p)
		want := r - cfg.LensStrength/(r+cfg.LensEpsilon)
		if math.Abs(l.Len()-want) > 1e-12 {
			t.Errorf("|Lens| at r=%v = %v, want %v", r, l.Len(), want)
		}
		if l.Dot(p) <= 0 {
			t.Errorf("Lens flipped a far point at r=%v", r)
		}
	}
	if got := m.Lens(mgl64.Vec2{}); got != (mgl64.Vec2{}) {
		t.Errorf("Lens(origin) = %v", got)
	}
}

func TestDiskBand(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	cfg := m.Config()
	inner, outer := cfg.InnerRadius(), cfg.OuterRadius()
	for _, x := range []float64{inner * 0.5, inner, outer, outer * 1.5} {
		far, near := m.Disk(mgl64.Vec2{x, 0}, 1, 1)
		if far != (mgl64.Vec3{}) || near != (mgl64.Vec3{}) {
			t.Errorf("disk at dr=%v outside band = %v/%v", x, far, near)
		}
	}
	far, _ := m.Disk(mgl64.Vec2{(inner + outer) / 2, 0}, 1, 1)
	if far.Len() == 0 {
		t.Error("disk mid-band is dark")
	}
}

func TestDopplerBrightensApproachingSide(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	cfg := m.Config()
	inner, outer := cfg.InnerRadius(), cfg.OuterRadius()
	var right, left float64
	for i := 1; i < 60; i++ {
		dr := inner + (outer-inner)*float64(i)/60
		for _, tm := range []float64{0, 0.7, 2.1} {
			r, _ := m.Disk(mgl64.Vec2{dr, 0}, tm, 1)
			l, _ := m.Disk(mgl64.Vec2{-dr, 0}, tm, 1)
			right += r[0] + r[1] + r[2]
			left += l[0] + l[1] + l[2]
		}
	}
	if right <= left {
		t.Errorf("approaching side %v not brighter than receding side %v", right, left)
	}
	if got := m.Doppler(math.Pi/2 - cfg.BeamingPhase); math.Abs(got-(1+cfg.BeamingGain)) > 1e-12 {
		t.Errorf("peak doppler = %v, want %v", got, 1+cfg.BeamingGain)
	}
}

func TestDiskAnimates(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	cfg := m.Config()
	p := mgl64.Vec2{(cfg.InnerRadius() + cfg.OuterRadius()) / 2, 0.01}
	a, _ := m.Disk(p, 0, 1)
	b, _ := m.Disk(p, 0.5, 1)
	if a == b {
		t.Error("disk did not change over time")
	}
	c, _ := m.Disk(p, 0.5, 1)
	if b != c {
		t.Error("disk not deterministic for equal inputs")
	}
}

func TestBlackbodyRamp(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	if got := m.Blackbody(0); got != (mgl64.Vec3{}) {
		t.Errorf("Blackbody(0) = %v, want black", got)
	}
	var all mgl64.Vec3
	for _, s := range m.Config().Blackbody {
		all = all.Add(s.Color)
	}
	if got := m.Blackbody(2); got.Sub(all).Len() > 1e-12 {
		t.Errorf("Blackbody(2) = %v, want %v", got, all)
	}
	hot, cold := m.Blackbody(1), m.Blackbody(0.2)
	if hot[2] <= cold[2] || hot[0]+hot[1]+hot[2] <= cold[0]+cold[1]+cold[2] {
		t.Errorf("hot %v should be brighter and bluer than cold %v", hot, cold)
	}
}

func TestDetailScaleGrowsWithZoom(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	if got := m.DetailScale(0); got != 1 {
		t.Errorf("DetailScale(0) = %v, want 1", got)
	}
	prev := 0.0
	for _, z := range []float64{0.4, 1, 10, 100, 200} {
		d := m.DetailScale(z)
		if d <= prev {
			t.Errorf("DetailScale not increasing at zoom %v", z)
		}
		prev = d
	}
}

func TestDetailScaleMatchesPhotoreal(t *testing.T) {
	m := mustModel(t, "photoreal")
	base := m.Config().DetailBase
	for _, z := range []float64{1, 10, 200} {
		got := base * m.DetailScale(z)
		want := 5 + 0.4*math.Log(z+1)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("detail at zoom %v = %v, want %v", z, got, want)
		}
	}
}

func TestShadowMaskProfiles(t *testing.T) {
	forEachPreset(t, func(t *testing.T, m *Model) {
		cfg := m.Config()
		if got := m.ShadowMask(cfg.Rs * 0.99); got != 1 {
			t.Errorf("mask inside = %v", got)
		}
		if got := m.ShadowMask(cfg.Rs + cfg.ShadowSoftness + 1e-9); got != 0 {
			t.Errorf("mask outside = %v", got)
		}
		prev := 1.0
		for i := 0; i <= 20; i++ {
			r := cfg.Rs + cfg.ShadowSoftness*float64(i)/20
			v := m.ShadowMask(r)
			if v > prev+1e-12 {
				t.Errorf("mask increases at r=%v", r)
			}
			prev = v
		}
	})
}

func TestDepthSplitOrdering(t *testing.T) {
	split := mustModel(t, "cinematic")
	flat := mustModel(t, scene.DefaultPreset)

	for i := 0; i < 720; i++ {
		a := float64(i) * math.Pi / 360
		for _, r := range []float64{0.3, 0.6, 1.2, 1.9} {
			p := mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)}
			l := split.Lens(p)
			far, near := split.Disk(l, 1, 1)
			if l[1] >= 0 && near != (mgl64.Vec3{}) {
				t.Fatalf("near disk reported above the hole at %v", p)
			}
			if l[1] < 0 && far != (mgl64.Vec3{}) {
				t.Fatalf("far disk reported below the hole at %v", p)
			}
			mask := split.ShadowMask(p.Len())
			want := far.Add(split.Ring(p, 1)).Mul(1 - mask).Add(near)
			if got := split.Shade(p, 1, 1); got.Sub(want).Len() > 1e-12 {
				t.Fatalf("Shade(%v) = %v, want %v", p, got, want)
			}

			_, flatNear := flat.Disk(flat.Lens(p), 1, 1)
			if flatNear != (mgl64.Vec3{}) {
				t.Fatalf("preset without depth split reported near disk at %v", p)
			}
		}
	}
}

func TestStarsSparseAndTwinkle(t *testing.T) {
	m := mustModel(t, scene.DefaultPreset)
	lit := 0
	total := 0
	var changed bool
	for i := 0; i < 400; i++ {
		for j := 0; j < 400; j++ {
			p := mgl64.Vec2{1 + float64(i)*0.004, 1 + float64(j)*0.004}
			s0 := m.Stars(p, 0)
			total++
			if s0 != (mgl64.Vec3{}) {
				lit++
				if s1 := m.Stars(p, 0.9); s1 != s0 {
					changed = true
				}
				if again := m.Stars(p, 0); again != s0 {
					t.Fatalf("Stars not deterministic at %v", p)
				}
			}
		}
	}
	if lit == 0 {
		t.Fatal("no stars found")
	}
	if frac := float64(lit) / float64(total); frac > 0.02 {
		t.Errorf("starfield too dense: %.4f lit", frac)
	}
	if !changed {
		t.Error("stars do not twinkle")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg, _ := scene.Lookup(scene.DefaultPreset)
	cfg.Rs = -1
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for negative rs")
	}
}
