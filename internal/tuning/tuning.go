// Package tuning derives the runtime coefficients used by the limb and head
// generators from a set of motion parameters.
package tuning

import (
	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/numeric"
	"github.com/normanking/cortexmotion/internal/personality"
)

// Tuning is recomputed in full whenever the motion parameters change.
type Tuning struct {
	ArmSwingModifier      float32 `json:"armSwingModifier"`
	MaxBackSwing          float32 `json:"maxBackSwing"`
	MaxForwardSwing       float32 `json:"maxForwardSwing"`
	VerticalSwingModifier float32 `json:"verticalSwingModifier"`
	VerticalSmoothness    float32 `json:"verticalSmoothness"`

	LegSwingModifier   float32 `json:"legSwingModifier"`
	LegLiftModifier    float32 `json:"legLiftModifier"`
	MaxLegForwardSwing float32 `json:"maxLegForwardSwing"`
	MaxLegBackSwing    float32 `json:"maxLegBackSwing"`
	LegSmoothness      float32 `json:"legSmoothness"`

	HeadAmount    float32 `json:"headAmount"`
	HeadSpeed     float32 `json:"headSpeed"`
	HeadIntensity float32 `json:"headIntensity"`

	// SpeedFactor scales the gait clock.
	SpeedFactor float32 `json:"speedFactor"`
}

// SpeedRange bounds the playback speed multiplier.
type SpeedRange struct {
	Min float32 `mapstructure:"min" yaml:"min" json:"min"`
	Max float32 `mapstructure:"max" yaml:"max" json:"max"`
}

// DefaultSpeedRange is the range used when none is configured.
var DefaultSpeedRange = SpeedRange{Min: 0.5, Max: 1.5}

// mapping is one clamp(base + source*sensitivity, lo, hi) rule.
type mapping struct {
	base, sensitivity, lo, hi float32
}

func (m mapping) apply(source float32) float32 {
	return numeric.Clamp(m.base+source*m.sensitivity, m.lo, m.hi)
}

var (
	armSwingModifier      = mapping{0.65, 0.2, 0.4, 0.9}
	maxBackSwing          = mapping{0.3, 0.5, 0.2, 0.8}
	maxForwardSwing       = mapping{0.2, 0.5, 0.5, 1.3}
	verticalSwingModifier = mapping{0.5, 0.3, 0.3, 0.7}
	verticalSmoothness    = mapping{0.5, -0.3, 0, 1}
	legSwingModifier      = mapping{0.5, 0.3, 0.3, 0.7}
	legLiftModifier       = mapping{0.5, 0.4, 0.3, 1}
	maxLegForwardSwing    = mapping{0.3, 0.4, 0.4, 1}
	maxLegBackSwing       = mapping{0.2, 0.4, 0.3, 0.9}
	legSmoothness         = mapping{0.5, -0.3, 0, 1}

	headAmount = mapping{0, 100, 1, 30}
	headSpeed  = mapping{0, 1, 0.2, 1}
)

// Derive computes the tuning for p. HeadIntensity depends on effort rather
// than on p and is left at zero; see WithEffort.
func Derive(p motion.Parameters, speed SpeedRange) Tuning {
	return Tuning{
		ArmSwingModifier:      armSwingModifier.apply(p.ElbowFrequency),
		MaxBackSwing:          maxBackSwing.apply(p.ElbowDisplacement),
		MaxForwardSwing:       maxForwardSwing.apply(p.AnimationSpeed),
		VerticalSwingModifier: verticalSwingModifier.apply(p.WristBend),
		VerticalSmoothness:    verticalSmoothness.apply(p.WristFrequency),

		LegSwingModifier:   legSwingModifier.apply(p.AnimationSpeed),
		LegLiftModifier:    legLiftModifier.apply(p.WristBend),
		MaxLegForwardSwing: maxLegForwardSwing.apply(p.TorsoRotationMagnitude),
		MaxLegBackSwing:    maxLegBackSwing.apply(p.ElbowTwist),
		LegSmoothness:      legSmoothness.apply(p.ElbowFrequency),

		HeadAmount: headAmount.apply(p.HeadRotationMagnitude),
		HeadSpeed:  headSpeed.apply(p.HeadRotationFrequency),

		SpeedFactor: SpeedFactor(p.AnimationSpeed, speed),
	}
}

// WithEffort returns t with HeadIntensity derived from e.
func (t Tuning) WithEffort(e personality.Effort) Tuning {
	t.HeadIntensity = HeadIntensity(e)
	return t
}

// SpeedFactor maps animationSpeed, clamped to [0, 1], onto the speed range.
func SpeedFactor(animationSpeed float32, speed SpeedRange) float32 {
	return numeric.Lerp(speed.Min, speed.Max, numeric.Clamp01(animationSpeed))
}

// HeadIntensity grows with directness or indirectness of space and with
// sudden time.
func HeadIntensity(e personality.Effort) float32 {
	space := e.Space
	if space < 0 {
		space = -space
	}
	return numeric.Clamp01((space + max(0, e.Time)) / 2)
}
