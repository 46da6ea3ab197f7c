package posture

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/numeric"
)

// HandOffset moves a hand target by the wrist bend (up, mirrored by side)
// and the wrist twist (sideways, not mirrored).
func HandOffset(p motion.Parameters, side float32, cfg Config) mgl32.Vec3 {
	effect := cfg.MovementIntensity * 0.1
	return mgl32.Vec3{
		numeric.Safe(p.WristTwist*cfg.WristTwistInfluence*effect, 0),
		numeric.Safe(p.WristBend*cfg.WristBendInfluence*side*effect, 0),
		0,
	}
}

// LegOffset is the forward push of a foot target at time t: the
// anticipation waves plus sin(t*pi)^TimeExponent, mirrored by side. Where
// the power is undefined (negative base, fractional exponent) the term is 0.
func LegOffset(t float32, p motion.Parameters, side float32, cfg Config) mgl32.Vec3 {
	i := cfg.MovementIntensity
	ao := AnticipationOvershoot(t, p) * cfg.LegAnticipationScale * i * cfg.LegAnticipationInfluence
	z := numeric.Safe(ao, 0) + numeric.Safe(TimeEffect(t, p.TimeExponent)*cfg.TimeExponentInfluence*side*i, 0)
	return mgl32.Vec3{0, 0, z}
}

// TimeEffect is sin(t*pi) raised to exponent. A non-finite exponent counts
// as 1 and a non-finite result as 0.
func TimeEffect(t, exponent float32) float32 {
	base := math.Sin(float64(t) * math.Pi)
	e := float64(numeric.Safe(exponent, 1))
	return numeric.Safe(float32(math.Pow(base, e)), 0)
}
