package posture

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/numeric"
)

// Config holds the torso, head sway and limb influences.
type Config struct {
	MovementIntensity              float32 `mapstructure:"movement_intensity" yaml:"movement_intensity"`
	RotationInfluence              float32 `mapstructure:"rotation_influence" yaml:"rotation_influence"`
	EnclosingSpreadingInfluence    float32 `mapstructure:"enclosing_spreading_influence" yaml:"enclosing_spreading_influence"`
	RetreatingAdvancingInfluence   float32 `mapstructure:"retreating_advancing_influence" yaml:"retreating_advancing_influence"`
	AnticipationOvershootInfluence float32 `mapstructure:"anticipation_overshoot_influence" yaml:"anticipation_overshoot_influence"`
	YawDegrees                     float32 `mapstructure:"yaw_degrees" yaml:"yaw_degrees"`
	SmoothingRate                  float32 `mapstructure:"smoothing_rate" yaml:"smoothing_rate"`

	HeadSwayInfluence         float32 `mapstructure:"head_sway_influence" yaml:"head_sway_influence"`
	HeadAnticipationScale     float32 `mapstructure:"head_anticipation_scale" yaml:"head_anticipation_scale"`
	HeadAnticipationInfluence float32 `mapstructure:"head_anticipation_influence" yaml:"head_anticipation_influence"`

	WristBendInfluence       float32 `mapstructure:"wrist_bend_influence" yaml:"wrist_bend_influence"`
	WristTwistInfluence      float32 `mapstructure:"wrist_twist_influence" yaml:"wrist_twist_influence"`
	LegAnticipationScale     float32 `mapstructure:"leg_anticipation_scale" yaml:"leg_anticipation_scale"`
	LegAnticipationInfluence float32 `mapstructure:"leg_anticipation_influence" yaml:"leg_anticipation_influence"`
	TimeExponentInfluence    float32 `mapstructure:"time_exponent_influence" yaml:"time_exponent_influence"`

	Weights WeightRanges `mapstructure:"weights" yaml:"weights"`
}

func DefaultConfig() Config {
	return Config{
		MovementIntensity:              0.1,
		RotationInfluence:              0.1,
		EnclosingSpreadingInfluence:    0.1,
		RetreatingAdvancingInfluence:   0.1,
		AnticipationOvershootInfluence: 0.05,
		YawDegrees:                     30,
		SmoothingRate:                  5,

		HeadSwayInfluence:         0.1,
		HeadAnticipationScale:     0.3,
		HeadAnticipationInfluence: 0.05,

		WristBendInfluence:       0.02,
		WristTwistInfluence:      0.02,
		LegAnticipationScale:     0.25,
		LegAnticipationInfluence: 0.025,
		TimeExponentInfluence:    0.05,

		Weights: DefaultWeightRanges(),
	}
}

// AnticipationOvershoot is the signed forward push of the anticipation wave
// minus the overshoot wave at time t. Near-zero periods are replaced by
// numeric.DefaultDivisor.
func AnticipationOvershoot(t float32, p motion.Parameters) float32 {
	ant := wave(t, p.AnticipationTime) * p.AnticipationVelocity
	over := wave(t, p.OvershootTime) * p.OvershootVelocity
	return numeric.Safe(ant-over, 0)
}

func wave(t, period float32) float32 {
	return float32(math.Sin(float64(t) * 2 * math.Pi / float64(numeric.SafeDivisor(period))))
}

// Sway is the torso sway term sin(t*freq)*magnitude*influence.
func Sway(t float32, p motion.Parameters, cfg Config) float32 {
	s := float32(math.Sin(float64(t*p.TorsoRotationFrequency))) * p.TorsoRotationMagnitude * cfg.RotationInfluence
	return numeric.Safe(s, 0)
}

// Torso tracks the smoothed torso offset and yaw.
type Torso struct {
	cfg      Config
	offset   mgl32.Vec3
	rotation mgl32.Quat
}

func NewTorso(cfg Config) *Torso {
	return &Torso{cfg: cfg, rotation: mgl32.QuatIdent()}
}

// Target is the unsmoothed torso offset at time t.
func (tr *Torso) Target(t float32, p motion.Parameters, s motion.ShapeQualities) mgl32.Vec3 {
	c := tr.cfg
	i := c.MovementIntensity
	sway := Sway(t, p, c)
	return numeric.SafeVec3(mgl32.Vec3{
		sway*i + s.EnclosingSpreading*c.EnclosingSpreadingInfluence*i,
		0,
		s.RetreatingAdvancing*c.RetreatingAdvancingInfluence*i + AnticipationOvershoot(t, p)*c.AnticipationOvershootInfluence*i,
	})
}

// Update smooths the offset and yaw toward their targets.
func (tr *Torso) Update(t float32, p motion.Parameters, s motion.ShapeQualities, dt float32) (mgl32.Vec3, mgl32.Quat) {
	target := tr.Target(t, p, s)
	tr.offset = numeric.SafeVec3(numeric.SmoothVec3(tr.offset, target, tr.cfg.SmoothingRate, dt))

	yaw := mgl32.QuatRotate(mgl32.DegToRad(Sway(t, p, tr.cfg)*tr.cfg.YawDegrees), mgl32.Vec3{0, 1, 0})
	k := numeric.SmoothFactor(tr.cfg.SmoothingRate, dt)
	if k > 0 {
		tr.rotation = mgl32.QuatSlerp(tr.rotation, yaw, k).Normalize()
	}
	return tr.offset, tr.rotation
}

func (tr *Torso) Offset() mgl32.Vec3   { return tr.offset }
func (tr *Torso) Rotation() mgl32.Quat { return tr.rotation }

func (tr *Torso) Reset() {
	tr.offset = mgl32.Vec3{}
	tr.rotation = mgl32.QuatIdent()
}

// HeadSway is the smoothed head-target bob driven by the head rotation
// parameters and the anticipation waves.
type HeadSway struct {
	cfg    Config
	offset mgl32.Vec3
}

func NewHeadSway(cfg Config) *HeadSway {
	return &HeadSway{cfg: cfg}
}

// Target is the unsmoothed head sway at time t.
func (h *HeadSway) Target(t float32, p motion.Parameters) mgl32.Vec3 {
	c := h.cfg
	i := c.MovementIntensity
	freq := float64(numeric.Safe(p.HeadRotationFrequency, 0))
	x := float32(math.Sin(float64(t)*freq)) * p.HeadRotationMagnitude * i * 2
	y := float32(math.Cos(float64(t)*freq*0.7)) * p.HeadRotationMagnitude * 1.4 * i
	z := AnticipationOvershoot(t, p) * c.HeadAnticipationScale * i * c.HeadAnticipationInfluence
	return numeric.SafeVec3(mgl32.Vec3{x * c.HeadSwayInfluence, y * c.HeadSwayInfluence, z})
}

// Update smooths the sway toward Target and returns it.
func (h *HeadSway) Update(t float32, p motion.Parameters, dt float32) mgl32.Vec3 {
	h.offset = numeric.SafeVec3(numeric.SmoothVec3(h.offset, h.Target(t, p), h.cfg.SmoothingRate, dt))
	return h.offset
}

func (h *HeadSway) Offset() mgl32.Vec3 { return h.offset }

func (h *HeadSway) Reset() { h.offset = mgl32.Vec3{} }
