// Package motion maps effort components onto motion parameters and shape
// qualities using fixed, empirically fitted linear models.
package motion

import (
	"github.com/normanking/cortexmotion/internal/numeric"
	"github.com/normanking/cortexmotion/internal/personality"
)

// Parameters are the sixteen motion knobs driven by effort.
type Parameters struct {
	AnimationSpeed         float32 `json:"animationSpeed" yaml:"animation_speed"`
	AnticipationVelocity   float32 `json:"anticipationVelocity" yaml:"anticipation_velocity"`
	OvershootVelocity      float32 `json:"overshootVelocity" yaml:"overshoot_velocity"`
	AnticipationTime       float32 `json:"anticipationTime" yaml:"anticipation_time"`
	OvershootTime          float32 `json:"overshootTime" yaml:"overshoot_time"`
	TimeExponent           float32 `json:"timeExponent" yaml:"time_exponent"`
	WristBend              float32 `json:"wristBend" yaml:"wrist_bend"`
	WristTwist             float32 `json:"wristTwist" yaml:"wrist_twist"`
	WristFrequency         float32 `json:"wristFrequency" yaml:"wrist_frequency"`
	ElbowTwist             float32 `json:"elbowTwist" yaml:"elbow_twist"`
	ElbowDisplacement      float32 `json:"elbowDisplacement" yaml:"elbow_displacement"`
	ElbowFrequency         float32 `json:"elbowFrequency" yaml:"elbow_frequency"`
	TorsoRotationMagnitude float32 `json:"torsoRotationMagnitude" yaml:"torso_rotation_magnitude"`
	TorsoRotationFrequency float32 `json:"torsoRotationFrequency" yaml:"torso_rotation_frequency"`
	HeadRotationMagnitude  float32 `json:"headRotationMagnitude" yaml:"head_rotation_magnitude"`
	HeadRotationFrequency  float32 `json:"headRotationFrequency" yaml:"head_rotation_frequency"`
}

// ParameterCount is the number of fields in Parameters.
const ParameterCount = 16

// ParameterNames lists the parameters in table order.
var ParameterNames = [ParameterCount]string{
	"animationSpeed",
	"anticipationVelocity",
	"overshootVelocity",
	"anticipationTime",
	"overshootTime",
	"timeExponent",
	"wristBend",
	"wristTwist",
	"wristFrequency",
	"elbowTwist",
	"elbowDisplacement",
	"elbowFrequency",
	"torsoRotationMagnitude",
	"torsoRotationFrequency",
	"headRotationMagnitude",
	"headRotationFrequency",
}

// coefficients rows are intercept, space, weight, time, flow.
var coefficients = [ParameterCount][5]float32{
	{0.558, -0.000, 0.001, 0.470, 0.001},   // animation speed
	{0.223, -0.011, 0.297, 0.000, -0.029},  // anticipation velocity
	{0.344, -0.042, -0.042, 0.000, -0.458}, // overshoot velocity
	{0.031, -0.002, 0.041, 0.008, -0.002},  // anticipation time
	{0.930, 0.015, 0.018, -0.015, 0.092},   // overshoot time
	{1.043, 0.015, 0.008, 0.072, 0.060},    // time exponent
	{0.191, -0.008, -0.238, 0.000, -0.025}, // wrist bend
	{0.160, -0.010, -0.053, 0.010, -0.196}, // wrist twist
	{0.848, -0.040, -0.760, -0.150, -0.381}, // wrist frequency
	{0.281, -0.009, 0.039, -0.005, -0.313}, // elbow twist
	{0.164, -0.016, -0.017, 0.035, -0.161}, // elbow displacement
	{0.735, 0.015, 0.041, 0.020, -0.809},   // elbow frequency
	{0.290, -0.043, 0.040, 0.010, -0.331},  // torso rotation magnitude
	{1.283, -0.179, 0.223, 0.067, -1.410},  // torso rotation frequency
	{1.210, -0.804, 0.008, 0.004, -0.178},  // head rotation magnitude
	{1.078, -1.225, 0.104, -0.017, 0.184},  // head rotation frequency
}

// Compute evaluates both models for one set of efforts.
func Compute(e personality.Effort) (Parameters, ShapeQualities) {
	return ComputeParameters(e), ComputeShape(e)
}

// ComputeParameters evaluates the sixteen regressions.
func ComputeParameters(e personality.Effort) Parameters {
	var v [ParameterCount]float32
	for i, c := range coefficients {
		v[i] = c[0] + c[1]*e.Space + c[2]*e.Weight + c[3]*e.Time + c[4]*e.Flow
	}
	return FromArray(v)
}

// Array returns the parameters in table order.
func (p Parameters) Array() [ParameterCount]float32 {
	return [ParameterCount]float32{
		p.AnimationSpeed,
		p.AnticipationVelocity,
		p.OvershootVelocity,
		p.AnticipationTime,
		p.OvershootTime,
		p.TimeExponent,
		p.WristBend,
		p.WristTwist,
		p.WristFrequency,
		p.ElbowTwist,
		p.ElbowDisplacement,
		p.ElbowFrequency,
		p.TorsoRotationMagnitude,
		p.TorsoRotationFrequency,
		p.HeadRotationMagnitude,
		p.HeadRotationFrequency,
	}
}

// FromArray is the inverse of Parameters.Array.
func FromArray(v [ParameterCount]float32) Parameters {
	return Parameters{
		AnimationSpeed:         v[0],
		AnticipationVelocity:   v[1],
		OvershootVelocity:      v[2],
		AnticipationTime:       v[3],
		OvershootTime:          v[4],
		TimeExponent:           v[5],
		WristBend:              v[6],
		WristTwist:             v[7],
		WristFrequency:         v[8],
		ElbowTwist:             v[9],
		ElbowDisplacement:      v[10],
		ElbowFrequency:         v[11],
		TorsoRotationMagnitude: v[12],
		TorsoRotationFrequency: v[13],
		HeadRotationMagnitude:  v[14],
		HeadRotationFrequency:  v[15],
	}
}

// Sanitized returns a copy with non-finite values replaced by zero.
func (p Parameters) Sanitized() Parameters {
	v := p.Array()
	for i := range v {
		v[i] = numeric.Safe(v[i], 0)
	}
	return FromArray(v)
}
