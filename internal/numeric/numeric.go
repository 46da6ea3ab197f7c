// Package numeric holds the small float helpers shared by the motion pipeline:
// inclusive clamps, interpolation, finite-value guards and frame-rate
// independent smoothing.
package numeric

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultDivisor replaces a divisor that is zero, near zero or non-finite.
const DefaultDivisor float32 = 0.01

// divisorEpsilon is the magnitude below which a divisor counts as zero.
const divisorEpsilon float32 = 1e-4

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b without clamping t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// LerpClamped interpolates between a and b with t clamped to [0, 1].
func LerpClamped(a, b, t float32) float32 {
	return Lerp(a, b, Clamp01(t))
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Safe returns v, or fallback when v is NaN or infinite.
func Safe(v, fallback float32) float32 {
	if !IsFinite(v) {
		return fallback
	}
	return v
}

// SafeVec3 replaces every non-finite component of v with zero.
func SafeVec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Safe(v[0], 0), Safe(v[1], 0), Safe(v[2], 0)}
}

// SafeDivisor returns d when it can be divided by, otherwise DefaultDivisor.
func SafeDivisor(d float32) float32 {
	if !IsFinite(d) || (d < divisorEpsilon && d > -divisorEpsilon) {
		return DefaultDivisor
	}
	return d
}

// SmoothFactor converts a smoothing rate (1/s) and a time step into an
// interpolation factor in [0, 1]. For small rate*dt it matches rate*dt.
func SmoothFactor(rate, dt float32) float32 {
	if dt <= 0 || rate <= 0 {
		return 0
	}
	return 1 - float32(math.Exp(float64(-rate*dt)))
}

// SmoothVec3 moves current toward target by SmoothFactor(rate, dt).
func SmoothVec3(current, target mgl32.Vec3, rate, dt float32) mgl32.Vec3 {
	k := SmoothFactor(rate, dt)
	return current.Add(target.Sub(current).Mul(k))
}

// Guard applies the finite-value guards and counts how many values it had to
// replace. The zero value is ready to use.
type Guard struct {
	replaced int
}

// Float returns Safe(v, fallback), counting a replacement.
func (g *Guard) Float(v, fallback float32) float32 {
	if !IsFinite(v) {
		g.replaced++
		return fallback
	}
	return v
}

// Vec3 returns SafeVec3(v), counting each replaced component.
func (g *Guard) Vec3(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{g.Float(v[0], 0), g.Float(v[1], 0), g.Float(v[2], 0)}
}

// Quat returns q when all four components are finite, otherwise identity.
func (g *Guard) Quat(q mgl32.Quat) mgl32.Quat {
	if IsFinite(q.W) && IsFinite(q.V[0]) && IsFinite(q.V[1]) && IsFinite(q.V[2]) {
		return q
	}
	g.replaced++
	return mgl32.QuatIdent()
}

// Replaced returns the number of substitutions made so far.
func (g *Guard) Replaced() int {
	return g.replaced
}

// Reset clears the substitution counter.
func (g *Guard) Reset() {
	g.replaced = 0
}

// Euler builds a rotation from angles in degrees applied Z first, then X,
// then Y.
func Euler(deg mgl32.Vec3) mgl32.Quat {
	qx := mgl32.QuatRotate(mgl32.DegToRad(deg[0]), mgl32.Vec3{1, 0, 0})
	qy := mgl32.QuatRotate(mgl32.DegToRad(deg[1]), mgl32.Vec3{0, 1, 0})
	qz := mgl32.QuatRotate(mgl32.DegToRad(deg[2]), mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz)
}
