package rig

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/normanking/cortexmotion/internal/limb"
	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/pose"
	"github.com/normanking/cortexmotion/internal/posture"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// TargetFrame is one target's output for a tick. Offset is Position minus
// the rest position.
type TargetFrame struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Quat `json:"rotation"`
	Offset   mgl32.Vec3 `json:"offset"`
}

// LegStates reports the stride state of each leg.
type LegStates struct {
	Left  limb.LegState `json:"left"`
	Right limb.LegState `json:"right"`
}

// Frame is an immutable snapshot of one tick.
type Frame struct {
	Tick        uint64
	Elapsed     float32
	GaitTime    float32
	Phase       float32
	SpeedFactor float32

	Targets [pose.TargetCount]TargetFrame

	Traits     personality.Traits
	Effort     personality.Effort
	Parameters motion.Parameters
	Shape      motion.ShapeQualities
	Tuning     tuning.Tuning
	Legs       LegStates
	Weights    posture.Weights

	// Sanitized counts the values replaced by finite fallbacks this tick.
	Sanitized int
}

// Target returns the output for t.
func (f Frame) Target(t pose.Target) TargetFrame {
	if t < 0 || int(t) >= pose.TargetCount {
		return TargetFrame{Rotation: mgl32.QuatIdent()}
	}
	return f.Targets[t]
}

type frameJSON struct {
	Tick        uint64                      `json:"tick"`
	Elapsed     float32                     `json:"elapsed"`
	GaitTime    float32                     `json:"gaitTime"`
	Phase       float32                     `json:"phase"`
	SpeedFactor float32                     `json:"speedFactor"`
	Targets     map[pose.Target]TargetFrame `json:"targets"`
	Traits      personality.Traits          `json:"traits"`
	Effort      personality.Effort          `json:"effort"`
	Parameters  motion.Parameters           `json:"parameters"`
	Shape       motion.ShapeQualities       `json:"shape"`
	Tuning      tuning.Tuning               `json:"tuning"`
	Legs        LegStates                   `json:"legs"`
	Weights     posture.Weights             `json:"weights"`
	Sanitized   int                         `json:"sanitized"`
}

func (f Frame) MarshalJSON() ([]byte, error) {
	targets := make(map[pose.Target]TargetFrame, pose.TargetCount)
	for i, tf := range f.Targets {
		targets[pose.Target(i)] = tf
	}
	return json.Marshal(frameJSON{
		Tick:        f.Tick,
		Elapsed:     f.Elapsed,
		GaitTime:    f.GaitTime,
		Phase:       f.Phase,
		SpeedFactor: f.SpeedFactor,
		Targets:     targets,
		Traits:      f.Traits,
		Effort:      f.Effort,
		Parameters:  f.Parameters,
		Shape:       f.Shape,
		Tuning:      f.Tuning,
		Legs:        f.Legs,
		Weights:     f.Weights,
		Sanitized:   f.Sanitized,
	})
}

func (f *Frame) UnmarshalJSON(data []byte) error {
	var raw frameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*f = Frame{
		Tick:        raw.Tick,
		Elapsed:     raw.Elapsed,
		GaitTime:    raw.GaitTime,
		Phase:       raw.Phase,
		SpeedFactor: raw.SpeedFactor,
		Traits:      raw.Traits,
		Effort:      raw.Effort,
		Parameters:  raw.Parameters,
		Shape:       raw.Shape,
		Tuning:      raw.Tuning,
		Legs:        raw.Legs,
		Weights:     raw.Weights,
		Sanitized:   raw.Sanitized,
	}
	for t, tf := range raw.Targets {
		f.Targets[t] = tf
	}
	return nil
}
