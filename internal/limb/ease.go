// Package limb turns the shared gait phase into arm, leg and wrist targets.
package limb

import (
	"github.com/normanking/cortexmotion/internal/numeric"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// Ease blends t toward smoothstep(t) by s.
func Ease(t, s float32) float32 {
	return numeric.Lerp(t, t*t*(3-2*t), s)
}

// Smoothness is the blend factor used by every eased curve. Arm and leg
// smoothness are coupled: the larger of the two wins for both.
func Smoothness(t tuning.Tuning) float32 {
	return max(t.VerticalSmoothness, t.LegSmoothness)
}

// AsymmetricSwing maps a phase in [-1, 1] to a horizontal offset that reaches
// maxForward at phase 1 and -maxBack at phase -1.
func AsymmetricSwing(phase, maxBack, maxForward float32) float32 {
	if phase >= 0 {
		return numeric.Lerp(0, maxForward, phase)
	}
	return numeric.Lerp(0, -maxBack, -phase)
}

// EasedSwing is AsymmetricSwing with the ease applied to the interpolation
// parameter.
func EasedSwing(phase, maxBack, maxForward, smoothness float32) float32 {
	if phase >= 0 {
		return numeric.Lerp(0, maxForward, Ease(phase, smoothness))
	}
	return numeric.Lerp(0, -maxBack, Ease(-phase, smoothness))
}
