package limb

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// ArmConfig holds the fixed arm swing settings.
type ArmConfig struct {
	Frequency         float32 `mapstructure:"frequency" yaml:"frequency"`
	VerticalAmplitude float32 `mapstructure:"vertical_amplitude" yaml:"vertical_amplitude"`
	FloorHeight       float32 `mapstructure:"floor_height" yaml:"floor_height"`
}

// DefaultArmConfig returns the stock arm settings.
func DefaultArmConfig() ArmConfig {
	return ArmConfig{
		Frequency:         1,
		VerticalAmplitude: 0.1,
		FloorHeight:       0.1,
	}
}

// Swing is a limb offset: Horizontal along the walking axis (z), Vertical
// along y.
type Swing struct {
	Horizontal float32
	Vertical   float32
}

// Place writes the swing into base: z and y are taken from rest plus the
// swing, y is floored, x is left as base has it.
func (s Swing) Place(base, rest mgl32.Vec3, floor float32) mgl32.Vec3 {
	out := base
	out[2] = rest[2] + s.Horizontal
	out[1] = max(rest[1]+s.Vertical, floor)
	return out
}

// ArmSwing computes the arm offset for a phase. Right arms pass the negated
// phase.
func ArmSwing(phase float32, t tuning.Tuning, cfg ArmConfig) Swing {
	return Swing{
		Horizontal: AsymmetricSwing(phase, t.MaxBackSwing, t.MaxForwardSwing) * t.ArmSwingModifier,
		Vertical:   verticalSwing(phase, t, cfg),
	}
}

// Arm places a rest position for the given phase.
func Arm(phase float32, rest mgl32.Vec3, t tuning.Tuning, cfg ArmConfig) mgl32.Vec3 {
	return ArmSwing(phase, t, cfg).Place(rest, rest, cfg.FloorHeight)
}

// verticalSwing lifts the hand on the forward half of the cycle only.
func verticalSwing(phase float32, t tuning.Tuning, cfg ArmConfig) float32 {
	if phase < 0 {
		return 0
	}
	return Ease(phase, Smoothness(t)) * cfg.VerticalAmplitude * t.VerticalSwingModifier
}
