package personality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTraitsClamps(t *testing.T) {
	tr := NewTraits(5, -5, 0.5, float32(math.NaN()), -1)
	assert.Equal(t, Traits{Openness: 1, Conscientiousness: -1, Extraversion: 0.5, Agreeableness: 0, Neuroticism: -1}, tr)
}

func TestConvertClampsBeforeUse(t *testing.T) {
	over := Convert(Traits{5, 5, 5, 5, 5})
	unit := Convert(NewTraits(1, 1, 1, 1, 1))
	assert.Equal(t, unit, over)
}

func TestConvertIsDeterministic(t *testing.T) {
	tr := NewTraits(0.3, -0.7, 0.2, 0.9, -0.4)
	first := Convert(tr)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Convert(tr))
	}
}

func TestConvertUsesDominantTerms(t *testing.T) {
	e := Convert(NewTraits(1, 1, 1, 1, 1))

	// space row: products -0.921, 0.928, -0.894, 0, -1.0
	assert.InDelta(t, 0.928-1.0, e.Space, 1e-6)
	assert.NotEqual(t, float32(-0.921+0.928-0.894-1.0), e.Space)

	// weight row only has an inhibitory term.
	assert.InDelta(t, -1.0, e.Weight, 1e-6)
	// time row: -0.857, 0.990, -1.000, 0.970
	assert.InDelta(t, 0.990-1.0, e.Time, 1e-6)
	// flow row: -0.931, 0.938, -1.000, -0.762
	assert.InDelta(t, 0.938-1.0, e.Flow, 1e-6)
}

func TestConvertAllPositiveRow(t *testing.T) {
	// conscientiousness=1 only: space row has a single positive product.
	e := Convert(NewTraits(0, 1, 0, 0, 0))
	assert.InDelta(t, 0.928, e.Space, 1e-6)
	assert.InDelta(t, 0.0, e.Weight, 1e-6)
	assert.InDelta(t, -0.857, e.Time, 1e-6)
	assert.InDelta(t, 0.938, e.Flow, 1e-6)
}

func TestConvertNeutralIsZero(t *testing.T) {
	assert.Equal(t, Effort{}, Convert(Traits{}))
}

func TestConvertOpenness(t *testing.T) {
	e := Convert(NewTraits(1, 0, 0, 0, 0))
	assert.InDelta(t, -0.921, e.Space, 1e-6)
	assert.InDelta(t, 0.0, e.Weight, 1e-6)
	assert.InDelta(t, 0.0, e.Time, 1e-6)
	assert.InDelta(t, -0.931, e.Flow, 1e-6)
}
