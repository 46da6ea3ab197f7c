// Package head produces the wandering head-target offset from coherent noise.
package head

import (
	"github.com/aquilax/go-perlin"

	"github.com/normanking/cortexmotion/internal/numeric"
)

// Noise is a smooth 2D field sampled in [0, 1].
type Noise interface {
	Sample(x, y float32) float32
}

// Standard Perlin parameters.
const (
	perlinAlpha  = 2.0
	perlinBeta   = 2.0
	perlinOctave = int32(3)
)

// PerlinNoise adapts go-perlin, whose output is centered on zero, to the
// [0, 1] band.
type PerlinNoise struct {
	p *perlin.Perlin
}

// NewPerlinNoise builds a noise field for seed.
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{p: perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctave, seed)}
}

func (n *PerlinNoise) Sample(x, y float32) float32 {
	v := n.p.Noise2D(float64(x), float64(y))
	return numeric.Clamp01(float32(v*0.5 + 0.5))
}
