package tuning

import (
	"testing"

	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/stretchr/testify/assert"
)

func TestDeriveAtInterceptParameters(t *testing.T) {
	p := motion.ComputeParameters(personality.Effort{})
	tn := Derive(p, DefaultSpeedRange)

	assert.InDelta(t, 0.65+0.735*0.2, tn.ArmSwingModifier, 1e-6)
	assert.InDelta(t, 0.3+0.164*0.5, tn.MaxBackSwing, 1e-6)
	assert.InDelta(t, 0.5, tn.MaxForwardSwing, 1e-6) // 0.2+0.279 is below the floor
	assert.InDelta(t, 0.5+0.191*0.3, tn.VerticalSwingModifier, 1e-6)
	assert.InDelta(t, 0.5-0.848*0.3, tn.VerticalSmoothness, 1e-6)
	assert.InDelta(t, 0.5+0.558*0.3, tn.LegSwingModifier, 1e-6)
	assert.InDelta(t, 0.5+0.191*0.4, tn.LegLiftModifier, 1e-6)
	assert.InDelta(t, 0.3+0.290*0.4, tn.MaxLegForwardSwing, 1e-6)
	assert.InDelta(t, 0.2+0.281*0.4, tn.MaxLegBackSwing, 1e-6)
	assert.InDelta(t, 0.5-0.735*0.3, tn.LegSmoothness, 1e-6)
	assert.InDelta(t, 30, tn.HeadAmount, 1e-6)
	assert.InDelta(t, 1, tn.HeadSpeed, 1e-6)
	assert.InDelta(t, 0.5+0.558, tn.SpeedFactor, 1e-6)
}

func TestDeriveClampsEveryField(t *testing.T) {
	huge := motion.FromArray([motion.ParameterCount]float32{
		100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100,
	})
	hi := Derive(huge, DefaultSpeedRange)
	assert.Equal(t, float32(0.9), hi.ArmSwingModifier)
	assert.Equal(t, float32(0.8), hi.MaxBackSwing)
	assert.Equal(t, float32(1.3), hi.MaxForwardSwing)
	assert.Equal(t, float32(0.7), hi.VerticalSwingModifier)
	assert.Equal(t, float32(0), hi.VerticalSmoothness)
	assert.Equal(t, float32(0.7), hi.LegSwingModifier)
	assert.Equal(t, float32(1), hi.LegLiftModifier)
	assert.Equal(t, float32(1), hi.MaxLegForwardSwing)
	assert.Equal(t, float32(0.9), hi.MaxLegBackSwing)
	assert.Equal(t, float32(0), hi.LegSmoothness)
	assert.Equal(t, float32(1.5), hi.SpeedFactor)

	tiny := motion.FromArray([motion.ParameterCount]float32{
		-100, -100, -100, -100, -100, -100, -100, -100, -100, -100, -100, -100, -100, -100, -100, -100,
	})
	lo := Derive(tiny, DefaultSpeedRange)
	assert.Equal(t, float32(0.4), lo.ArmSwingModifier)
	assert.Equal(t, float32(0.2), lo.MaxBackSwing)
	assert.Equal(t, float32(1), lo.VerticalSmoothness)
	assert.Equal(t, float32(1), lo.LegSmoothness)
	assert.Equal(t, float32(1), lo.HeadAmount)
	assert.Equal(t, float32(0.2), lo.HeadSpeed)
	assert.Equal(t, float32(0.5), lo.SpeedFactor)
}

func TestSpeedFactor(t *testing.T) {
	r := SpeedRange{Min: 0.25, Max: 2}
	assert.Equal(t, float32(0.25), SpeedFactor(-3, r))
	assert.Equal(t, float32(2), SpeedFactor(3, r))
	assert.InDelta(t, 1.125, SpeedFactor(0.5, r), 1e-6)
}

func TestHeadIntensity(t *testing.T) {
	assert.InDelta(t, 0.5, HeadIntensity(personality.Effort{Space: -1}), 1e-6)
	assert.InDelta(t, 0.25, HeadIntensity(personality.Effort{Space: 0.5, Time: -1}), 1e-6)
	assert.InDelta(t, 1.0, HeadIntensity(personality.Effort{Space: 1, Time: 1}), 1e-6)

	tn := Derive(motion.Parameters{}, DefaultSpeedRange).WithEffort(personality.Effort{Time: 0.6})
	assert.InDelta(t, 0.3, tn.HeadIntensity, 1e-6)
}
