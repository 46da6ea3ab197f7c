package posture

import (
	"github.com/normanking/cortexmotion/internal/numeric"
	"github.com/normanking/cortexmotion/internal/personality"
)

// Band is the multiplier range an effort component maps onto.
type Band struct {
	Min float32 `mapstructure:"min" yaml:"min" json:"min"`
	Max float32 `mapstructure:"max" yaml:"max" json:"max"`
}

// at maps v in [-1, 1] onto the band.
func (b Band) at(v float32) float32 {
	return numeric.Lerp(b.Min, b.Max, numeric.Clamp01((v+1)/2))
}

// inverse maps v in [-1, 1] onto the band from Max down to Min.
func (b Band) inverse(v float32) float32 {
	return Band{Min: b.Max, Max: b.Min}.at(v)
}

// WeightRanges bounds how far effort scales each IK weight.
type WeightRanges struct {
	Flow        Band `mapstructure:"flow" yaml:"flow"`
	Space       Band `mapstructure:"space" yaml:"space"`
	Weight      Band `mapstructure:"weight" yaml:"weight"`
	Time        Band `mapstructure:"time" yaml:"time"`
	Neuroticism Band `mapstructure:"neuroticism" yaml:"neuroticism"`
	ArmSpread   Band `mapstructure:"arm_spread" yaml:"arm_spread"`
}

func DefaultWeightRanges() WeightRanges {
	return WeightRanges{
		Flow:        Band{0.9, 1.1},
		Space:       Band{0.95, 1.05},
		Weight:      Band{0.9, 1.1},
		Time:        Band{0.9, 1.1},
		Neuroticism: Band{0.9, 1.1},
		ArmSpread:   Band{0.3, 0.7},
	}
}

// Weights are the IK constraint weights for each limb group, in [0, 1].
// The host engine applies them to its constraints.
type Weights struct {
	Arm   float32 `json:"arm"`
	Leg   float32 `json:"leg"`
	Torso float32 `json:"torso"`
	Head  float32 `json:"head"`
}

// ComputeWeights derives the IK weights from traits and effort. Extraversion
// spreads the arms and lifts the head, conscientiousness commits the legs
// and openness the torso.
func ComputeWeights(t personality.Traits, e personality.Effort, r WeightRanges) Weights {
	t = t.Clamped()
	norm := func(v float32) float32 { return (v + 1) / 2 }

	spread := numeric.Clamp(norm(t.Extraversion), r.ArmSpread.Min, r.ArmSpread.Max)
	arm := spread * r.Flow.at(e.Flow) * r.Space.at(e.Space)
	leg := norm(t.Conscientiousness) * r.Weight.at(e.Weight) * r.Time.inverse(e.Time)
	torso := norm(t.Openness) * r.Space.at(e.Space) * r.Flow.inverse(e.Flow)
	head := norm(t.Extraversion) * r.Neuroticism.at(t.Neuroticism) * r.Time.inverse(e.Time)

	return Weights{
		Arm:   numeric.Clamp01(numeric.Safe(arm, 0)),
		Leg:   numeric.Clamp01(numeric.Safe(leg, 0)),
		Torso: numeric.Clamp01(numeric.Safe(torso, 0)),
		Head:  numeric.Clamp01(numeric.Safe(head, 0)),
	}
}
