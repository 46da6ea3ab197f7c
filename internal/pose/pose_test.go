package pose

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 2, 3]}],
  "nodes": [
    {"name": "Root", "translation": [0, 1, 0], "rotation": [0, 0.70710678, 0, 0.70710678], "children": [1]},
    {"name": "LeftHandTarget", "translation": [1, 0, 0]},
    {"name": "HeadTarget", "translation": [0, 1.7, 0.5]},
    {"name": "LFoot", "translation": [-0.2, 0.05, 0]}
  ]
}`

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

// assertQuatNear treats q and -q as the same rotation.
func assertQuatNear(t *testing.T, want, got mgl32.Quat, delta float64) {
	t.Helper()
	if want.Dot(got) < 0 {
		got = got.Scale(-1)
	}
	assert.InDelta(t, want.W, got.W, delta, "w of %v", got)
	assertVecNear(t, want.V, got.V, delta)
}

func writeGLTF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rig.gltf")
	require.NoError(t, os.WriteFile(path, []byte(testGLTF), 0644))
	return path
}

func TestTargetNames(t *testing.T) {
	assert.Len(t, Targets(), TargetCount)
	for _, tg := range Targets() {
		parsed, err := ParseTarget(tg.String())
		require.NoError(t, err)
		assert.Equal(t, tg, parsed)
	}
	_, err := ParseTarget("tail")
	assert.Error(t, err)
	assert.Equal(t, "target(42)", Target(42).String())
}

func TestTargetJSONKeys(t *testing.T) {
	data, err := json.Marshal(map[Target]int{Head: 1, LeftLeg: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"head":1,"leftLeg":2}`, string(data))

	var back map[Target]int
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, 1, back[Head])
}

func TestDefaultPose(t *testing.T) {
	r := Default()
	assert.Equal(t, mgl32.Vec3{-0.3, 1.0, 0}, r.Get(LeftArm).Position)
	assert.Equal(t, mgl32.QuatIdent(), r.Get(Chest).Rotation)
	assert.Equal(t, Identity(), r.Get(Target(-1)))

	// look-at target ahead of the face, above the shoulders
	head := r.Get(Head).Position
	assert.Equal(t, mgl32.Vec3{0, 1.7, 2}, head)
	assert.Greater(t, head.Y(), r.Get(LeftShoulder).Position.Y())

	r2 := r
	r2.Set(LeftArm, Identity())
	assert.NotEqual(t, r.Get(LeftArm), r2.Get(LeftArm))
}

func TestNodeNamesFallBack(t *testing.T) {
	n := NodeNames{Head: "Neck"}
	assert.Equal(t, "Neck", n.For(Head))
	assert.Equal(t, "LeftHandTarget", n.For(LeftArm))
	assert.Equal(t, "HipsTarget", DefaultNodeNames().For(Torso))
}

func TestLoadWithoutPathUsesDefault(t *testing.T) {
	r, err := Load(Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, Default(), r)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(Config{GLTFPath: filepath.Join(t.TempDir(), "missing.gltf")}, zerolog.Nop())
	assert.Error(t, err)
}

func TestLoadGLTF(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GLTFPath = writeGLTF(t)
	cfg.Nodes.LeftLeg = "LFoot"

	r, err := Load(cfg, zerolog.Nop())
	require.NoError(t, err)

	// Child of a root turned 90 degrees about y.
	hand := r.Get(LeftArm)
	assertVecNear(t, mgl32.Vec3{0, 1, -1}, hand.Position, 1e-5)
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	assertQuatNear(t, want, hand.Rotation, 1e-5)

	assertVecNear(t, mgl32.Vec3{0, 1.7, 0.5}, r.Get(Head).Position, 1e-6)
	assertVecNear(t, mgl32.Vec3{-0.2, 0.05, 0}, r.Get(LeftLeg).Position, 1e-6)

	// Unmatched targets keep the built-in pose.
	assert.Equal(t, Default().Get(RightArm), r.Get(RightArm))
}

func TestLoadGLTFNoMatchingNodes(t *testing.T) {
	cfg := Config{GLTFPath: writeGLTF(t), Nodes: NodeNames{
		LeftArm: "Nope", RightArm: "Nope", LeftLeg: "Nope", RightLeg: "Nope", Head: "Nope",
		Torso: "Nope", Chest: "Nope", LeftShoulder: "Nope", RightShoulder: "Nope",
	}}
	_, err := Load(cfg, zerolog.Nop())
	assert.Error(t, err)
}
