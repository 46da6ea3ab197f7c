package limb

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexmotion/internal/tuning"
)

func symmetricTuning() tuning.Tuning {
	return tuning.Tuning{
		ArmSwingModifier:      0.8,
		MaxBackSwing:          0.5,
		MaxForwardSwing:       0.5,
		VerticalSwingModifier: 0.5,
		VerticalSmoothness:    0.5,
		LegSwingModifier:      0.5,
		LegLiftModifier:       0.5,
		MaxLegForwardSwing:    0.6,
		MaxLegBackSwing:       0.6,
		LegSmoothness:         0.2,
	}
}

func TestEaseEndpoints(t *testing.T) {
	for _, s := range []float32{0, 0.25, 0.5, 0.75, 1} {
		assert.Equal(t, float32(0), Ease(0, s), "s=%v", s)
		assert.Equal(t, float32(1), Ease(1, s), "s=%v", s)
	}
	assert.Equal(t, float32(0.25), Ease(0.25, 0))
	assert.InDelta(t, 0.15625, Ease(0.25, 1), 1e-6)
}

func TestSmoothnessCoupling(t *testing.T) {
	tu := tuning.Tuning{VerticalSmoothness: 0.2, LegSmoothness: 0.7}
	assert.Equal(t, float32(0.7), Smoothness(tu))
	tu.VerticalSmoothness = 0.9
	assert.Equal(t, float32(0.9), Smoothness(tu))
}

func TestAsymmetricSwing(t *testing.T) {
	assert.Equal(t, float32(0), AsymmetricSwing(0, 0.3, 0.8))
	assert.InDelta(t, 0.8, AsymmetricSwing(1, 0.3, 0.8), 1e-6)
	assert.InDelta(t, -0.3, AsymmetricSwing(-1, 0.3, 0.8), 1e-6)
	assert.InDelta(t, 0.4, AsymmetricSwing(0.5, 0.3, 0.8), 1e-6)

	assert.InDelta(t, 0.8, EasedSwing(1, 0.3, 0.8, 1), 1e-6)
	assert.InDelta(t, -0.3, EasedSwing(-1, 0.3, 0.8, 1), 1e-6)
}

func TestArmMirrorsWithSymmetricLimits(t *testing.T) {
	tu := symmetricTuning()
	cfg := DefaultArmConfig()
	for _, phase := range []float32{-1, -0.7, -0.2, 0.1, 0.5, 0.99, 1} {
		left := ArmSwing(phase, tu, cfg)
		right := ArmSwing(-phase, tu, cfg)
		assert.Equal(t, -left.Horizontal, right.Horizontal, "phase=%v", phase)
	}
}

func TestArmVerticalOnlyForward(t *testing.T) {
	tu := symmetricTuning()
	cfg := DefaultArmConfig()

	assert.Equal(t, float32(0), ArmSwing(-0.5, tu, cfg).Vertical)
	up := ArmSwing(1, tu, cfg).Vertical
	assert.InDelta(t, cfg.VerticalAmplitude*tu.VerticalSwingModifier, up, 1e-6)
}

func TestArmRespectsFloor(t *testing.T) {
	tu := symmetricTuning()
	cfg := DefaultArmConfig()

	pos := Arm(-0.5, mgl32.Vec3{0.2, 0, 0}, tu, cfg)
	assert.Equal(t, cfg.FloorHeight, pos[1])
	assert.Equal(t, float32(0.2), pos[0])
	assert.InDelta(t, -0.2, pos[2], 1e-6)
}

func TestSwingPlaceKeepsBaseX(t *testing.T) {
	s := Swing{Horizontal: 0.1, Vertical: 0.05}
	base := mgl32.Vec3{-0.3, 9, 9}
	rest := mgl32.Vec3{-0.2, 1, 0.5}
	out := s.Place(base, rest, 0)
	assert.Equal(t, float32(-0.3), out[0])
	assert.InDelta(t, 1.05, out[1], 1e-6)
	assert.InDelta(t, 0.6, out[2], 1e-6)
}

func TestLegLiftWindow(t *testing.T) {
	tu := tuning.Tuning{LegLiftModifier: 1}
	cfg := DefaultLegConfig()

	assert.Equal(t, float32(0), LegLift(-1, tu, cfg))
	assert.Equal(t, float32(0), LegLift(-0.95, tu, cfg))
	assert.Equal(t, float32(0), LegLift(-0.92, tu, cfg))

	// Zero smoothness leaves the parabola untouched.
	lp := (0 + 1 - cfg.LiftStartPoint) / (2 - cfg.LiftStartPoint)
	want := (1 - (2*lp-1)*(2*lp-1)) * cfg.LiftAmplitude
	assert.InDelta(t, want, LegLift(0, tu, cfg), 1e-6)

	for _, phase := range []float32{-0.8, -0.3, 0.2, 0.6, 0.95} {
		lift := LegLift(phase, tu, cfg)
		assert.Greater(t, lift, float32(0), "phase=%v", phase)
		assert.LessOrEqual(t, lift, cfg.LiftAmplitude, "phase=%v", phase)
	}
}

func TestLegTrackerHysteresis(t *testing.T) {
	lt := NewLegTracker(0.1)
	require.Equal(t, Forward, lt.State())

	steps := []struct {
		d       float32
		want    LegState
		changed bool
	}{
		{0.05, Forward, false},
		{-0.05, Forward, false},
		{-0.1, BackSwing, true},
		{-0.5, BackSwing, false},
		{0.05, BackSwing, false},
		{0.09, BackSwing, false},
		{0.1, Forward, true},
		{0.8, Forward, false},
		{-0.09, Forward, false},
	}
	for i, s := range steps {
		got, changed := lt.Update(s.d)
		assert.Equal(t, s.want, got, "step %d", i)
		assert.Equal(t, s.changed, changed, "step %d", i)
	}

	lt.Update(-1)
	lt.Reset()
	assert.Equal(t, Forward, lt.State())
}

func TestLegTrackerNoChatter(t *testing.T) {
	lt := NewLegTracker(0.1)
	transitions := 0
	// Noise inside the band around zero must never flip the state.
	for i := 0; i < 200; i++ {
		d := float32(0.09)
		if i%2 == 0 {
			d = -0.09
		}
		if _, changed := lt.Update(d); changed {
			transitions++
		}
	}
	assert.Zero(t, transitions)
}

func TestPlaceLegPinsBackSwing(t *testing.T) {
	s := Swing{Horizontal: -0.2, Vertical: 0.08}
	rest := mgl32.Vec3{0.1, 0, 0}

	fwd := PlaceLeg(s, Forward, rest, rest, 0)
	assert.InDelta(t, 0.08, fwd[1], 1e-6)

	back := PlaceLeg(s, BackSwing, rest, rest, 0)
	assert.Equal(t, float32(0), back[1])
	assert.InDelta(t, -0.2, back[2], 1e-6)
}

func TestLegStateString(t *testing.T) {
	assert.Equal(t, "forward", Forward.String())
	assert.Equal(t, "back_swing", BackSwing.String())

	var st LegState
	require.NoError(t, st.UnmarshalText([]byte("back_swing")))
	assert.Equal(t, BackSwing, st)
	assert.Error(t, st.UnmarshalText([]byte("sideways")))
}

func TestWristZ(t *testing.T) {
	cfg := DefaultWristConfig()
	assert.Equal(t, float32(30), WristZ(-1, cfg))
	assert.Equal(t, float32(0), WristZ(0, cfg))
	assert.Equal(t, float32(-30), WristZ(1, cfg))
}

func TestWristAtNeutralPhase(t *testing.T) {
	q := Wrist(0, mgl32.QuatIdent(), DefaultWristConfig())
	v := q.Rotate(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 0, v[0], 1e-5)
	assert.InDelta(t, 0, v[1], 1e-5)
	assert.InDelta(t, 1, v[2], 1e-5)
}
