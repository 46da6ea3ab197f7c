// Package personality converts five-factor personality traits into Laban
// effort components.
package personality

import (
	"fmt"

	"github.com/normanking/cortexmotion/internal/numeric"
)

// Traits is a five-factor personality profile. Every trait lies in [-1, 1].
type Traits struct {
	Openness          float32 `yaml:"openness" json:"openness"`
	Conscientiousness float32 `yaml:"conscientiousness" json:"conscientiousness"`
	Extraversion      float32 `yaml:"extraversion" json:"extraversion"`
	Agreeableness     float32 `yaml:"agreeableness" json:"agreeableness"`
	Neuroticism       float32 `yaml:"neuroticism" json:"neuroticism"`
}

// NewTraits builds a profile, clamping each trait to [-1, 1].
func NewTraits(o, c, e, a, n float32) Traits {
	return Traits{
		Openness:          clampTrait(o),
		Conscientiousness: clampTrait(c),
		Extraversion:      clampTrait(e),
		Agreeableness:     clampTrait(a),
		Neuroticism:       clampTrait(n),
	}
}

// Clamped returns a copy with every trait clamped to [-1, 1].
func (t Traits) Clamped() Traits {
	return NewTraits(t.Openness, t.Conscientiousness, t.Extraversion, t.Agreeableness, t.Neuroticism)
}

// Values returns the traits in O, C, E, A, N order.
func (t Traits) Values() [TraitCount]float32 {
	return [TraitCount]float32{t.Openness, t.Conscientiousness, t.Extraversion, t.Agreeableness, t.Neuroticism}
}

func (t Traits) String() string {
	return fmt.Sprintf("O=%.2f C=%.2f E=%.2f A=%.2f N=%.2f",
		t.Openness, t.Conscientiousness, t.Extraversion, t.Agreeableness, t.Neuroticism)
}

// TraitCount is the number of personality dimensions.
const TraitCount = 5

func clampTrait(v float32) float32 {
	// NaN is not ordered, so Clamp would pass it through.
	return numeric.Clamp(numeric.Safe(v, 0), -1, 1)
}
