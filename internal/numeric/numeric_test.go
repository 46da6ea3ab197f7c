package numeric

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestClampIsInclusive(t *testing.T) {
	assert.Equal(t, float32(-1), Clamp(-1, -1, 1))
	assert.Equal(t, float32(1), Clamp(1, -1, 1))
	assert.Equal(t, float32(-1), Clamp(-5, -1, 1))
	assert.Equal(t, float32(1), Clamp(5, -1, 1))
	assert.Equal(t, float32(0.25), Clamp(0.25, -1, 1))
}

func TestSafeReplacesNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))

	assert.Equal(t, float32(0), Safe(nan, 0))
	assert.Equal(t, float32(2), Safe(inf, 2))
	assert.Equal(t, float32(0.5), Safe(0.5, 2))

	v := SafeVec3(mgl32.Vec3{nan, 1, inf})
	assert.Equal(t, mgl32.Vec3{0, 1, 0}, v)
}

func TestSafeDivisor(t *testing.T) {
	assert.Equal(t, DefaultDivisor, SafeDivisor(0))
	assert.Equal(t, DefaultDivisor, SafeDivisor(1e-6))
	assert.Equal(t, DefaultDivisor, SafeDivisor(float32(math.NaN())))
	assert.Equal(t, float32(-0.5), SafeDivisor(-0.5))
	assert.Equal(t, float32(0.031), SafeDivisor(0.031))
}

func TestSmoothFactor(t *testing.T) {
	assert.Equal(t, float32(0), SmoothFactor(5, 0))
	assert.Equal(t, float32(0), SmoothFactor(0, 1))
	assert.InDelta(t, 5.0/1000.0, SmoothFactor(5, 0.001), 1e-4)
	assert.Less(t, SmoothFactor(5, 10), float32(1.0000001))
}

func TestSmoothVec3IsFrameRateIndependent(t *testing.T) {
	target := mgl32.Vec3{1, 2, 3}

	coarse := mgl32.Vec3{}
	for i := 0; i < 30; i++ {
		coarse = SmoothVec3(coarse, target, 5, 1.0/30)
	}
	fine := mgl32.Vec3{}
	for i := 0; i < 120; i++ {
		fine = SmoothVec3(fine, target, 5, 1.0/120)
	}

	for i := 0; i < 3; i++ {
		assert.InDelta(t, coarse[i], fine[i], 1e-4)
	}
}

func TestGuardCountsReplacements(t *testing.T) {
	var g Guard
	nan := float32(math.NaN())

	g.Float(1, 0)
	g.Float(nan, 0)
	g.Vec3(mgl32.Vec3{nan, nan, 0})
	q := g.Quat(mgl32.Quat{W: nan})

	assert.Equal(t, 4, g.Replaced())
	assert.Equal(t, mgl32.QuatIdent(), q)

	g.Reset()
	assert.Equal(t, 0, g.Replaced())
}

func TestEulerOrder(t *testing.T) {
	// Z first, then X, then Y.
	v := Euler(mgl32.Vec3{90, 90, 0}).Rotate(mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 1, v[0], 1e-5)
	assert.InDelta(t, 0, v[1], 1e-5)
	assert.InDelta(t, 0, v[2], 1e-5)
}
