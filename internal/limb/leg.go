package limb

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// LegConfig holds the fixed leg swing settings.
type LegConfig struct {
	LiftAmplitude  float32 `mapstructure:"lift_amplitude" yaml:"lift_amplitude"`
	FloorHeight    float32 `mapstructure:"floor_height" yaml:"floor_height"`
	LiftStartPoint float32 `mapstructure:"lift_start_point" yaml:"lift_start_point"`
	PeakThreshold  float32 `mapstructure:"peak_threshold" yaml:"peak_threshold"`
}

// DefaultLegConfig returns the stock leg settings.
func DefaultLegConfig() LegConfig {
	return LegConfig{
		LiftAmplitude:  0.1,
		FloorHeight:    0,
		LiftStartPoint: 0.1,
		PeakThreshold:  0.1,
	}
}

// LegSwing computes the leg offset for a phase: an eased asymmetric stride
// and a windowed lift.
func LegSwing(phase float32, t tuning.Tuning, cfg LegConfig) Swing {
	s := Smoothness(t)
	return Swing{
		Horizontal: EasedSwing(phase, t.MaxLegBackSwing, t.MaxLegForwardSwing, s) * t.LegSwingModifier,
		Vertical:   LegLift(phase, t, cfg),
	}
}

// LegLift is a parabola over the part of the cycle after the lift start
// point, peaking at LiftAmplitude*LegLiftModifier.
func LegLift(phase float32, t tuning.Tuning, cfg LegConfig) float32 {
	p := float32(math.Mod(float64(phase)+1, 2)) - 1
	start := cfg.LiftStartPoint
	if p <= -1+start || p >= 1 {
		return 0
	}

	lp := (p + 1 - start) / (2 - start)
	curve := 1 - (2*lp-1)*(2*lp-1)
	return Ease(curve, Smoothness(t)) * cfg.LiftAmplitude * t.LegLiftModifier
}

// PlaceLeg is Swing.Place with the foot pinned to the floor during the back
// swing.
func PlaceLeg(s Swing, state LegState, base, rest mgl32.Vec3, floor float32) mgl32.Vec3 {
	out := s.Place(base, rest, floor)
	if state == BackSwing {
		out[1] = floor
	}
	return out
}

// LegState is the discrete stride state of one leg.
type LegState int

const (
	Forward LegState = iota
	BackSwing
)

func (s LegState) String() string {
	switch s {
	case Forward:
		return "forward"
	case BackSwing:
		return "back_swing"
	default:
		return "unknown"
	}
}

func (s LegState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *LegState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "forward":
		*s = Forward
	case "back_swing":
		*s = BackSwing
	default:
		return fmt.Errorf("unknown leg state %q", string(b))
	}
	return nil
}

// LegTracker flips between Forward and BackSwing on the phase derivative
// with a hysteresis band of ±threshold.
type LegTracker struct {
	state     LegState
	threshold float32
}

// NewLegTracker starts in Forward.
func NewLegTracker(threshold float32) *LegTracker {
	if threshold < 0 {
		threshold = -threshold
	}
	return &LegTracker{state: Forward, threshold: threshold}
}

// Update feeds one derivative sample and reports whether the state changed.
func (lt *LegTracker) Update(derivative float32) (LegState, bool) {
	switch {
	case lt.state == BackSwing && derivative >= lt.threshold:
		lt.state = Forward
		return lt.state, true
	case lt.state == Forward && derivative <= -lt.threshold:
		lt.state = BackSwing
		return lt.state, true
	}
	return lt.state, false
}

// State returns the current state.
func (lt *LegTracker) State() LegState {
	return lt.state
}

// Reset returns the tracker to Forward.
func (lt *LegTracker) Reset() {
	lt.state = Forward
}
