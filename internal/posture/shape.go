// Package posture applies shape qualities and torso sway to the rest pose.
package posture

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/numeric"
)

// Range is a movement scale with inclusive output bounds.
type Range struct {
	Base float32 `mapstructure:"base" yaml:"base"`
	Min  float32 `mapstructure:"min" yaml:"min"`
	Max  float32 `mapstructure:"max" yaml:"max"`
}

// Movement returns clamp(Base*factor, Min, Max). Ranges with a positive Min
// never produce a zero movement.
func (r Range) Movement(factor float32) float32 {
	return numeric.Clamp(r.Base*factor, r.Min, r.Max)
}

// Ranges holds one Range per displaced body part. Toe and FootYaw are in
// degrees.
type Ranges struct {
	Hand     Range `mapstructure:"hand" yaml:"hand"`
	Foot     Range `mapstructure:"foot" yaml:"foot"`
	Hip      Range `mapstructure:"hip" yaml:"hip"`
	Toe      Range `mapstructure:"toe" yaml:"toe"`
	Shoulder Range `mapstructure:"shoulder" yaml:"shoulder"`
	Chest    Range `mapstructure:"chest" yaml:"chest"`
	Head     Range `mapstructure:"head" yaml:"head"`
	FootYaw  Range `mapstructure:"foot_yaw" yaml:"foot_yaw"`
}

func DefaultRanges() Ranges {
	return Ranges{
		Hand:     Range{0.25, 0.1, 0.5},
		Foot:     Range{0.1, 0.05, 0.25},
		Hip:      Range{0.2, 0.1, 0.3},
		Toe:      Range{30, 15, 45},
		Shoulder: Range{0.5, 1, 3},
		Chest:    Range{10, 2, 8},
		Head:     Range{2.5, 0.05, 0.15},
		FootYaw:  Range{20, 10, 30},
	}
}

// Displacement is the shape-driven offset of every posed target.
type Displacement struct {
	LeftHand      mgl32.Vec3
	RightHand     mgl32.Vec3
	LeftFoot      mgl32.Vec3
	RightFoot     mgl32.Vec3
	Hips          mgl32.Vec3
	Head          mgl32.Vec3
	Chest         mgl32.Vec3
	LeftShoulder  mgl32.Vec3
	RightShoulder mgl32.Vec3

	// Foot rotations are applied after the rest rotation.
	LeftFootRotation  mgl32.Quat
	RightFootRotation mgl32.Quat
}

// Displace computes the displacement for a set of shape qualities.
//
// Enclosing/spreading moves hands and feet apart on x, yaws both feet and
// moves the shoulders in. Sinking/rising lifts hands, hips, head and chest and
// pitches the toes down when rising. Retreating/advancing moves the hands
// forward and the left foot back.
func Displace(s motion.ShapeQualities, r Ranges) Displacement {
	es := s.EnclosingSpreading
	handES := r.Hand.Movement(es)
	footES := r.Foot.Movement(es)
	footYaw := r.FootYaw.Movement(es)
	shoulderES := r.Shoulder.Movement(es)

	sr := s.SinkingRising
	handSR := r.Hand.Movement(sr)
	hipSR := r.Hip.Movement(sr)
	headSR := r.Head.Movement(sr)
	chestSR := r.Chest.Movement(sr)
	toeSR := r.Toe.Movement(sr)

	ra := s.RetreatingAdvancing
	handRA := r.Hand.Movement(ra)
	footRA := r.Foot.Movement(ra)

	d := Displacement{
		LeftHand:      mgl32.Vec3{-handES, handSR, handRA},
		RightHand:     mgl32.Vec3{handES, handSR, handRA},
		LeftFoot:      mgl32.Vec3{-footES, 0, -footRA},
		RightFoot:     mgl32.Vec3{footES, 0, 0},
		Hips:          mgl32.Vec3{0, hipSR, 0},
		Head:          mgl32.Vec3{0, headSR, 0},
		Chest:         mgl32.Vec3{0, chestSR, 0},
		LeftShoulder:  mgl32.Vec3{shoulderES, 0, 0},
		RightShoulder: mgl32.Vec3{-shoulderES, 0, 0},
	}

	foot := numeric.Euler(mgl32.Vec3{0, footYaw, 0})
	if sr > 0 {
		foot = foot.Mul(numeric.Euler(mgl32.Vec3{-toeSR, 0, 0}))
	}
	d.LeftFootRotation = foot
	d.RightFootRotation = foot
	return d
}
