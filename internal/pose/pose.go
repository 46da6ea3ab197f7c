// Package pose describes the posed targets and their rest transforms.
package pose

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Target identifies one IK target driven by the rig.
type Target int

const (
	LeftArm Target = iota
	RightArm
	LeftLeg
	RightLeg
	Head
	Torso
	Chest
	LeftShoulder
	RightShoulder

	TargetCount = int(RightShoulder) + 1
)

var targetNames = [TargetCount]string{
	"leftArm",
	"rightArm",
	"leftLeg",
	"rightLeg",
	"head",
	"torso",
	"chest",
	"leftShoulder",
	"rightShoulder",
}

// Targets lists every target in declaration order.
func Targets() []Target {
	out := make([]Target, TargetCount)
	for i := range out {
		out[i] = Target(i)
	}
	return out
}

func (t Target) String() string {
	if t < 0 || int(t) >= TargetCount {
		return fmt.Sprintf("target(%d)", int(t))
	}
	return targetNames[t]
}

func (t Target) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= TargetCount {
		return nil, fmt.Errorf("unknown target %d", int(t))
	}
	return []byte(targetNames[t]), nil
}

func (t *Target) UnmarshalText(b []byte) error {
	parsed, err := ParseTarget(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTarget resolves a target by its name.
func ParseTarget(name string) (Target, error) {
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("unknown target %q", name)
}

// Transform is a position and rotation pair.
type Transform struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Quat `json:"rotation"`
}

// Identity is a transform at the origin with no rotation.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent()}
}

// Rest holds the rest transform of every target. It is a value type; copies
// are independent.
type Rest struct {
	transforms [TargetCount]Transform
}

// Get returns the rest transform of t.
func (r Rest) Get(t Target) Transform {
	if t < 0 || int(t) >= TargetCount {
		return Identity()
	}
	return r.transforms[t]
}

// Set replaces the rest transform of t.
func (r *Rest) Set(t Target, tr Transform) {
	if t < 0 || int(t) >= TargetCount {
		return
	}
	r.transforms[t] = tr
}

// Default returns a standing humanoid pose in meters, y up and z forward.
func Default() Rest {
	var r Rest
	at := func(t Target, x, y, z float32) {
		r.Set(t, Transform{Position: mgl32.Vec3{x, y, z}, Rotation: mgl32.QuatIdent()})
	}
	at(LeftArm, -0.3, 1.0, 0)
	at(RightArm, 0.3, 1.0, 0)
	at(LeftLeg, -0.1, 0, 0)
	at(RightLeg, 0.1, 0, 0)
	// Head is a look-at target 2 m ahead at eye height, not the head bone.
	at(Head, 0, 1.7, 2)
	at(Torso, 0, 1.0, 0)
	at(Chest, 0, 1.35, 0)
	at(LeftShoulder, -0.18, 1.45, 0)
	at(RightShoulder, 0.18, 1.45, 0)
	return r
}
