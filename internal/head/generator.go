package head

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/normanking/cortexmotion/internal/numeric"
	"github.com/normanking/cortexmotion/internal/oscillator"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// Config holds the fixed head settings.
type Config struct {
	SmoothingRate float32 `mapstructure:"smoothing_rate" yaml:"smoothing_rate"`
	// AxisSpacing separates the three noise samples in both coordinates.
	AxisSpacing float32 `mapstructure:"axis_spacing" yaml:"axis_spacing"`
}

// DefaultConfig returns the stock head settings.
func DefaultConfig() Config {
	return Config{
		SmoothingRate: 5,
		AxisSpacing:   100,
	}
}

// Generator tracks the smoothed head offset. It is not safe for concurrent
// use; the rig serializes access.
type Generator struct {
	noise   Noise
	cfg     Config
	current mgl32.Vec3
}

// NewGenerator creates a generator at rest.
func NewGenerator(noise Noise, cfg Config) *Generator {
	return &Generator{noise: noise, cfg: cfg}
}

// Target is the unsmoothed offset for the head clock's current time.
func (g *Generator) Target(clock *oscillator.Clock, tu tuning.Tuning) mgl32.Vec3 {
	t := clock.Elapsed() * tu.HeadSpeed
	seed := clock.Offset()
	scale := 2 * tu.HeadAmount * tu.HeadIntensity

	var out mgl32.Vec3
	for axis := range out {
		k := float32(axis) * g.cfg.AxisSpacing
		n := g.noise.Sample(t+k, seed+k)
		out[axis] = (n - 0.5) * scale
	}
	return out
}

// Update moves the offset toward Target and returns it.
func (g *Generator) Update(clock *oscillator.Clock, tu tuning.Tuning, dt float32) mgl32.Vec3 {
	target := numeric.SafeVec3(g.Target(clock, tu))
	g.current = numeric.SafeVec3(numeric.SmoothVec3(g.current, target, g.cfg.SmoothingRate, dt))
	return g.current
}

// Offset returns the last smoothed offset.
func (g *Generator) Offset() mgl32.Vec3 {
	return g.current
}

// Reset returns the head to rest.
func (g *Generator) Reset() {
	g.current = mgl32.Vec3{}
}
