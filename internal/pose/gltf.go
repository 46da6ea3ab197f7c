package pose

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/rs/zerolog"
)

// Config selects where the rest pose comes from.
type Config struct {
	// GLTFPath is a .gltf or .glb file. Empty means the built-in pose.
	GLTFPath string    `mapstructure:"gltf_path" yaml:"gltf_path"`
	Nodes    NodeNames `mapstructure:"nodes" yaml:"nodes"`
}

// NodeNames maps each target to a glTF node name.
type NodeNames struct {
	LeftArm       string `mapstructure:"left_arm" yaml:"left_arm"`
	RightArm      string `mapstructure:"right_arm" yaml:"right_arm"`
	LeftLeg       string `mapstructure:"left_leg" yaml:"left_leg"`
	RightLeg      string `mapstructure:"right_leg" yaml:"right_leg"`
	Head          string `mapstructure:"head" yaml:"head"`
	Torso         string `mapstructure:"torso" yaml:"torso"`
	Chest         string `mapstructure:"chest" yaml:"chest"`
	LeftShoulder  string `mapstructure:"left_shoulder" yaml:"left_shoulder"`
	RightShoulder string `mapstructure:"right_shoulder" yaml:"right_shoulder"`
}

// DefaultNodeNames follows the usual "<Part>Target" naming of IK rigs.
func DefaultNodeNames() NodeNames {
	return NodeNames{
		LeftArm:       "LeftHandTarget",
		RightArm:      "RightHandTarget",
		LeftLeg:       "LeftFootTarget",
		RightLeg:      "RightFootTarget",
		Head:          "HeadTarget",
		Torso:         "HipsTarget",
		Chest:         "ChestTarget",
		LeftShoulder:  "LeftShoulderTarget",
		RightShoulder: "RightShoulderTarget",
	}
}

// For returns the node name of t, falling back to the default name when
// unset.
func (n NodeNames) For(t Target) string {
	var name string
	switch t {
	case LeftArm:
		name = n.LeftArm
	case RightArm:
		name = n.RightArm
	case LeftLeg:
		name = n.LeftLeg
	case RightLeg:
		name = n.RightLeg
	case Head:
		name = n.Head
	case Torso:
		name = n.Torso
	case Chest:
		name = n.Chest
	case LeftShoulder:
		name = n.LeftShoulder
	case RightShoulder:
		name = n.RightShoulder
	}
	if name == "" && n != DefaultNodeNames() {
		return DefaultNodeNames().For(t)
	}
	return name
}

func DefaultConfig() Config {
	return Config{Nodes: DefaultNodeNames()}
}

// Load builds the rest pose described by cfg. Targets without a matching node
// keep their Default() transform.
func Load(cfg Config, log zerolog.Logger) (Rest, error) {
	if cfg.GLTFPath == "" {
		return Default(), nil
	}

	path := cfg.GLTFPath
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	doc, err := gltf.Open(path)
	if err != nil {
		return Rest{}, fmt.Errorf("open gltf: %w", err)
	}
	return FromDocument(doc, cfg.Nodes, log)
}

// FromDocument reads world-space rest transforms for the named nodes of doc.
func FromDocument(doc *gltf.Document, nodes NodeNames, log zerolog.Logger) (Rest, error) {
	rest := Default()
	if len(doc.Nodes) == 0 {
		return rest, fmt.Errorf("no nodes in document")
	}

	byName := make(map[string]int, len(doc.Nodes))
	parent := make([]int, len(doc.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i, n := range doc.Nodes {
		if n.Name != "" {
			byName[n.Name] = i
		}
		for _, c := range n.Children {
			if c >= 0 && c < len(parent) {
				parent[c] = i
			}
		}
	}

	found := 0
	for _, t := range Targets() {
		name := nodes.For(t)
		idx, ok := byName[name]
		if !ok {
			log.Warn().Str("target", t.String()).Str("node", name).Msg("Rest node not found, using default")
			continue
		}
		rest.Set(t, worldTransform(doc, parent, idx))
		found++
	}

	if found == 0 {
		return rest, fmt.Errorf("none of the target nodes were found")
	}
	log.Info().Int("targets", found).Msg("Loaded rest pose")
	return rest, nil
}

// worldTransform composes the node's local transform with its ancestors'.
func worldTransform(doc *gltf.Document, parent []int, idx int) Transform {
	mat := mgl32.Ident4()
	rot := mgl32.QuatIdent()
	for i := idx; i >= 0; i = parent[i] {
		m, q := localTransform(doc.Nodes[i])
		mat = m.Mul4(mat)
		rot = q.Mul(rot)
	}
	return Transform{
		Position: mat.Col(3).Vec3(),
		Rotation: rot.Normalize(),
	}
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func localTransform(n *gltf.Node) (mgl32.Mat4, mgl32.Quat) {
	if n.Matrix != [16]float64{} && n.Matrix != identityMatrix {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m, mgl32.Mat4ToQuat(m).Normalize()
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()

	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}.Normalize()
	m := mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
	return m, q
}
