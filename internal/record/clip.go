// Package record samples a rig into keyframe clips.
package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/normanking/cortexmotion/internal/limb"
	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/pose"
)

// Keyframe is one sampled transform.
type Keyframe struct {
	Time     float32    `json:"time"`
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Quat `json:"rotation"`
}

// Track holds the keyframes of a single target in time order.
type Track struct {
	Target    pose.Target `json:"target"`
	Keyframes []Keyframe  `json:"keyframes"`
}

// LegKeyframe records the stride states at a sample time.
type LegKeyframe struct {
	Time  float32       `json:"time"`
	Left  limb.LegState `json:"left"`
	Right limb.LegState `json:"right"`
}

// Clip is a recorded animation.
type Clip struct {
	ID        string    `json:"id"`
	RigID     string    `json:"rigId"`
	CreatedAt time.Time `json:"createdAt"`
	FPS       int       `json:"fps"`
	Duration  float32   `json:"duration"`
	OneCycle  bool      `json:"oneCycle"`

	Traits     personality.Traits    `json:"traits"`
	Effort     personality.Effort    `json:"effort"`
	Parameters motion.Parameters     `json:"parameters"`
	Shape      motion.ShapeQualities `json:"shape"`

	Tracks []Track       `json:"tracks"`
	Legs   []LegKeyframe `json:"legs"`
}

// Track returns the track for t, or nil.
func (c *Clip) Track(t pose.Target) *Track {
	for i := range c.Tracks {
		if c.Tracks[i].Target == t {
			return &c.Tracks[i]
		}
	}
	return nil
}

// Frames is the number of samples per track.
func (c *Clip) Frames() int {
	if len(c.Tracks) == 0 {
		return 0
	}
	return len(c.Tracks[0].Keyframes)
}

// Save writes the clip as indented JSON, creating parent directories.
func (c *Clip) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create clip directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode clip: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write clip: %w", err)
	}
	return nil
}

// Load reads a clip written by Save.
func Load(path string) (*Clip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read clip: %w", err)
	}
	var c Clip
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse clip %s: %w", path, err)
	}
	return &c, nil
}
