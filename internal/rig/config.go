package rig

import (
	"github.com/normanking/cortexmotion/internal/head"
	"github.com/normanking/cortexmotion/internal/limb"
	"github.com/normanking/cortexmotion/internal/posture"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// Config is the fixed configuration of a rig. Generators receive their
// sections by value; a running rig never sees config changes.
type Config struct {
	Arm     limb.ArmConfig    `mapstructure:"arm" yaml:"arm"`
	Leg     limb.LegConfig    `mapstructure:"leg" yaml:"leg"`
	Wrist   limb.WristConfig  `mapstructure:"wrist" yaml:"wrist"`
	Head    head.Config       `mapstructure:"head" yaml:"head"`
	Posture posture.Config    `mapstructure:"posture" yaml:"posture"`
	Shape   posture.Ranges    `mapstructure:"shape" yaml:"shape"`
	Speed   tuning.SpeedRange `mapstructure:"speed" yaml:"speed"`
	// Seed fixes the head noise and clock offset. Zero picks one from the
	// wall clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Arm:     limb.DefaultArmConfig(),
		Leg:     limb.DefaultLegConfig(),
		Wrist:   limb.DefaultWristConfig(),
		Head:    head.DefaultConfig(),
		Posture: posture.DefaultConfig(),
		Shape:   posture.DefaultRanges(),
		Speed:   tuning.DefaultSpeedRange,
	}
}
