package limb

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/normanking/cortexmotion/internal/numeric"
)

// WristConfig holds the hand rotation settings, in degrees.
type WristConfig struct {
	RotationOffset mgl32.Vec3 `mapstructure:"rotation_offset" yaml:"rotation_offset"`
	MinZ           float32    `mapstructure:"min_z" yaml:"min_z"`
	MaxZ           float32    `mapstructure:"max_z" yaml:"max_z"`
}

// DefaultWristConfig returns the stock wrist settings.
func DefaultWristConfig() WristConfig {
	return WristConfig{
		RotationOffset: mgl32.Vec3{0, -90, 0},
		MinZ:           -30,
		MaxZ:           30,
	}
}

// WristZ maps the swing phase onto the Z roll: MaxZ at phase -1, MinZ at 1.
func WristZ(phase float32, cfg WristConfig) float32 {
	return cfg.MaxZ - (phase*0.5+0.5)*(cfg.MaxZ-cfg.MinZ)
}

// Wrist returns rest * offset * roll(z).
func Wrist(phase float32, rest mgl32.Quat, cfg WristConfig) mgl32.Quat {
	roll := numeric.Euler(mgl32.Vec3{0, 0, WristZ(phase, cfg)})
	return rest.Mul(numeric.Euler(cfg.RotationOffset)).Mul(roll).Normalize()
}
