package shader

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/keshavsharma54126/goblackhole/frame"
	"github.com/keshavsharma54126/goblackhole/scene"
)

//go:embed blackhole.frag
var blackholeSource string

// ────────────────────────────────── Vertex ──────────────────────────────────

const vertexShaderSource = `#version 410 core
layout (location = 0) in vec2 in_vert;
out vec2 frag_uv;
void main() {
    frag_uv = in_vert * 0.5 + 0.5;
    gl_Position = vec4(in_vert, 0.0, 1.0);
}
`

// GenerateVertexShader returns the GLSL 410 full-screen quad pass-through.
// Only the fragment stage goes through the translator.
func GenerateVertexShader() string {
	return vertexShaderSource
}

// ────────────────────────── Generated preamble ──────────────────────────────

// uniformTypes declares the per-frame uniforms, keyed by frame's names.
var uniformTypes = map[string]string{
	frame.UniformResolution: "vec2",
	frame.UniformTime:       "float",
	frame.UniformCamera:     "vec2",
	frame.UniformZoom:       "float",
	frame.UniformMouse:      "vec2",
}

// GeneratePreamble emits the GLSL ES 3.00 header for cfg: version,
// precision, the frame uniforms, one #define per scene constant and the
// blackbody ramp unrolled into a function.
func GeneratePreamble(cfg *scene.Config) string {
	var b strings.Builder
	b.WriteString(`#version 300 es
precision highp float;
precision highp int;

`)
	for _, name := range frame.UniformNames {
		fmt.Fprintf(&b, "uniform %-5s %s;\n", uniformTypes[name], name)
	}
	b.WriteString("\n")

	for _, d := range defines(cfg) {
		fmt.Fprintf(&b, "#define %s %s\n", d.name, d.value)
	}
	b.WriteString("\n")

	b.WriteString("vec3 blackbody(float x) {\n    vec3 c = vec3(0.0);\n")
	for _, s := range cfg.Blackbody {
		fmt.Fprintf(&b, "    c += %s * smoothstep(%s, %s, x);\n", glslVec3(s.Color), glslFloat(s.Lo), glslFloat(s.Hi))
	}
	b.WriteString("    return c;\n}\n\n")
	return b.String()
}

// GetFragmentShader returns the complete black hole fragment shader for cfg.
func GetFragmentShader(cfg *scene.Config) string {
	return GeneratePreamble(cfg) + blackholeSource
}

type define struct {
	name, value string
}

func defines(c *scene.Config) []define {
	pp := c.Post
	return []define{
		{"RS", glslFloat(c.Rs)},
		{"LENS_K", glslFloat(c.LensStrength)},
		{"LENS_EPS", glslFloat(c.LensEpsilon)},
		{"INCLINATION", glslFloat(c.Inclination)},
		{"DISK_INNER", glslFloat(c.InnerRadius())},
		{"DISK_OUTER", glslFloat(c.OuterRadius())},
		{"KEPLER", glslFloat(c.KeplerSpeed)},
		{"DETAIL_BASE", glslFloat(c.DetailBase)},
		{"DETAIL_ZOOM_GAIN", glslFloat(c.DetailZoomGain)},
		{"ANGULAR_DETAIL", glslFloat(c.AngularDetail)},
		{"FLOW_RADIAL", glslFloat(c.FlowRadial)},
		{"FLOW_ANGULAR", glslFloat(c.FlowAngular)},
		{"FLOW_GAIN", glslFloat(c.FlowGain)},
		{"BEAMING_PHASE", glslFloat(c.BeamingPhase)},
		{"BEAMING_GAIN", glslFloat(c.BeamingGain)},
		{"BEAMING_EXP", glslFloat(c.BeamingExponent)},
		{"GRADIENT_EXP", glslFloat(c.GradientExponent)},
		{"DISK_GAIN", glslFloat(c.DiskGain)},
		{"PLASMA_BASE", glslFloat(c.PlasmaBase)},
		{"PLASMA_GAIN", glslFloat(c.PlasmaGain)},
		{"OUTER_FADE", glslFloat(c.OuterFade)},
		{"INNER_FADE", glslFloat(c.InnerFade)},
		{"DEPTH_SPLIT", glslBool(c.DepthSplit)},
		{"RING_RADIUS", glslFloat(c.RingRadius())},
		{"RING_COEFF", glslFloat(c.RingWidthCoeff)},
		{"RING_FLOOR", glslFloat(c.RingWidthFloor)},
		{"RING_COLOR", glslVec3(c.RingColor)},
		{"RING_GAIN", glslFloat(c.RingGain)},
		{"RING_GAUSSIAN", glslBool(c.RingProfile == scene.RingGaussian)},
		{"RING_ASYM", glslFloat(c.RingAsymmetry)},
		{"SHADOW_DUAL", glslBool(c.Shadow == scene.ShadowDual)},
		{"SHADOW_SOFT", glslFloat(c.ShadowSoftness)},
		{"STAR_SCALE", glslFloat(c.StarScale)},
		{"STAR_CELLS", glslFloat(c.StarCells)},
		{"STAR_THRESHOLD", glslFloat(c.StarThreshold)},
		{"STAR_GAIN", glslFloat(c.StarGain)},
		{"STAR_RADIUS", glslFloat(c.StarRadius)},
		{"TWINKLE_SPEED", glslFloat(c.TwinkleSpeed)},
		{"TWINKLE_DEPTH", glslFloat(c.TwinkleDepth)},
		{"STAR_WARM", glslVec3(c.StarWarm)},
		{"STAR_COOL", glslVec3(c.StarCool)},
		{"NOISE_OCTAVES", strconv.Itoa(c.Noise.Octaves)},
		{"NOISE_LACUNARITY", glslFloat(c.Noise.Lacunarity)},
		{"NOISE_PERSISTENCE", glslFloat(c.Noise.Persistence)},
		{"NOISE_ROTATION", glslFloat(c.Noise.Rotation)},
		{"POST_ABERRATION", glslFloat(pp.Aberration)},
		{"POST_BLOOM_THRESHOLD", glslFloat(pp.BloomThreshold)},
		{"POST_BLOOM_GAIN", glslFloat(pp.BloomGain)},
		{"POST_GRAIN_SCALE", glslFloat(pp.GrainScale)},
		{"POST_GRAIN_AMOUNT", glslFloat(pp.GrainAmount)},
		{"POST_EXPOSURE", glslFloat(pp.Exposure)},
		{"POST_CONTRAST", glslBool(pp.Gamma != 0 && pp.Gamma != 1)},
		{"POST_GAMMA", glslFloat(pp.Gamma)},
		{"POST_VIGNETTE", glslFloat(pp.Vignette)},
	}
}

// glslFloat formats v as a GLSL float literal; GLSL ES rejects "1" where a
// float is expected.
func glslFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func glslVec3(v [3]float64) string {
	return fmt.Sprintf("vec3(%s, %s, %s)", glslFloat(v[0]), glslFloat(v[1]), glslFloat(v[2]))
}

func glslBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
