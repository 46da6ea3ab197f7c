package oscillator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClockIgnoresBadSteps(t *testing.T) {
	var c Clock
	c.Advance(0.5)
	c.Advance(-1)
	c.Advance(float32(math.NaN()))
	c.Advance(float32(math.Inf(1)))
	assert.Equal(t, float32(0.5), c.Elapsed())
}

func TestClockPhase(t *testing.T) {
	var c Clock
	assert.Equal(t, float32(0), c.Sin(1))
	assert.Equal(t, float32(1), c.Cos(1))

	c.Advance(0.5)
	assert.InDelta(t, 1, c.Sin(1), 1e-6)
	assert.InDelta(t, 0, c.Cos(1), 1e-6)
	assert.InDelta(t, 0, c.Sin(2), 1e-6)
	assert.InDelta(t, -1, c.Cos(2), 1e-6)
}

func TestBankScalesOnlyGait(t *testing.T) {
	b := NewBank(rand.New(rand.NewSource(1)))
	for i := 0; i < 10; i++ {
		b.Advance(0.1, 1.5)
	}
	assert.InDelta(t, 1.5, b.Gait.Elapsed(), 1e-6)
	assert.InDelta(t, 1.0, b.Head.Elapsed(), 1e-6)
}

func TestBankOffsetsDecorrelate(t *testing.T) {
	a := NewBank(rand.New(rand.NewSource(1)))
	b := NewBank(rand.New(rand.NewSource(2)))
	again := NewBank(rand.New(rand.NewSource(1)))

	assert.NotEqual(t, a.Head.Offset(), b.Head.Offset())
	assert.Equal(t, a.Head.Offset(), again.Head.Offset())
	assert.GreaterOrEqual(t, a.Head.Offset(), float32(0))
	assert.Less(t, a.Head.Offset(), float32(1000))
	assert.Equal(t, float32(0), a.Gait.Offset())

	a.Advance(1, 1)
	a.Reset()
	assert.Equal(t, float32(0), a.Head.Elapsed())
	assert.Equal(t, again.Head.Offset(), a.Head.Offset())
}
