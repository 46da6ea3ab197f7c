// Package oscillator accumulates time and turns it into sinusoidal phases.
package oscillator

import (
	"math"
	"math/rand"

	"github.com/normanking/cortexmotion/internal/numeric"
)

// Clock accumulates time. Phase queries are sin(t*frequency*pi).
type Clock struct {
	elapsed float64
	offset  float64
}

// Advance adds dt to the clock. Negative and non-finite steps are ignored so
// the clock is monotonic.
func (c *Clock) Advance(dt float32) {
	if !numeric.IsFinite(dt) || dt <= 0 {
		return
	}
	c.elapsed += float64(dt)
}

// Elapsed returns the accumulated time.
func (c *Clock) Elapsed() float32 {
	return float32(c.elapsed)
}

// Offset is the fixed per-instance offset used to decorrelate noise.
func (c *Clock) Offset() float32 {
	return float32(c.offset)
}

// Sin returns the phase sin(t*frequency*pi) in [-1, 1].
func (c *Clock) Sin(frequency float32) float32 {
	return float32(math.Sin(c.elapsed * float64(frequency) * math.Pi))
}

// Cos returns the phase derivative sign carrier cos(t*frequency*pi).
func (c *Clock) Cos(frequency float32) float32 {
	return float32(math.Cos(c.elapsed * float64(frequency) * math.Pi))
}

// Reset sets the accumulated time back to zero. The offset is kept.
func (c *Clock) Reset() {
	c.elapsed = 0
}

// Bank holds the two phase families: the gait clock shared by arms, legs and
// wrists, which runs at the playback speed factor, and the head clock, which
// runs on raw time and carries a random offset.
type Bank struct {
	Gait Clock
	Head Clock
}

// NewBank creates a bank whose head offset is drawn from rng in [0, 1000).
func NewBank(rng *rand.Rand) *Bank {
	b := &Bank{}
	b.Head.offset = rng.Float64() * 1000
	return b
}

// Advance steps the gait clock by dt*speed and the head clock by dt.
func (b *Bank) Advance(dt, speed float32) {
	b.Gait.Advance(dt * speed)
	b.Head.Advance(dt)
}

// Reset rewinds both clocks.
func (b *Bank) Reset() {
	b.Gait.Reset()
	b.Head.Reset()
}
