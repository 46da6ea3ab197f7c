package record

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexmotion/internal/bus"
	"github.com/normanking/cortexmotion/internal/pose"
	"github.com/normanking/cortexmotion/internal/rig"
)

// maxFrames bounds a single recording.
const maxFrames = 1 << 16

// Source is the rig being sampled.
type Source interface {
	ID() string
	Frame() rig.Frame
	Tick(dt float32) rig.Frame
}

// Options control sampling. With OneCycle set, Duration is replaced by the
// length of one gait cycle at the source's current speed.
type Options struct {
	FPS          int
	Duration     time.Duration
	OneCycle     bool
	ArmFrequency float32
}

// CycleDuration is the wall-clock length of one gait cycle: the phase is
// sin(t*frequency*pi) on a clock running at speed.
func CycleDuration(frequency, speed float32) (time.Duration, error) {
	if frequency <= 0 || speed <= 0 {
		return 0, fmt.Errorf("no gait cycle for frequency %.3f at speed %.3f", frequency, speed)
	}
	seconds := 2 / (float64(frequency) * float64(speed))
	return time.Duration(seconds * float64(time.Second)), nil
}

// Recorder samples sources into clips.
type Recorder struct {
	log zerolog.Logger
	bus *bus.EventBus
}

// NewRecorder creates a recorder. b may be nil.
func NewRecorder(log zerolog.Logger, b *bus.EventBus) *Recorder {
	return &Recorder{log: log, bus: b}
}

// Record ticks src at opts.FPS and captures every target. The first sample
// is the source's current frame at time zero.
func (r *Recorder) Record(ctx context.Context, src Source, opts Options) (*Clip, error) {
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d", opts.FPS)
	}

	start := src.Frame()
	duration := opts.Duration
	if opts.OneCycle {
		d, err := CycleDuration(opts.ArmFrequency, start.SpeedFactor)
		if err != nil {
			return nil, err
		}
		duration = d
	}
	if duration <= 0 {
		return nil, errors.New("recording duration must be positive")
	}

	steps := int(math.Ceil(duration.Seconds() * float64(opts.FPS)))
	if steps+1 > maxFrames {
		return nil, fmt.Errorf("recording of %s at %d fps exceeds %d frames", duration, opts.FPS, maxFrames)
	}

	clip := &Clip{
		ID:         uuid.NewString(),
		RigID:      src.ID(),
		CreatedAt:  time.Now(),
		FPS:        opts.FPS,
		Duration:   float32(duration.Seconds()),
		OneCycle:   opts.OneCycle,
		Traits:     start.Traits,
		Effort:     start.Effort,
		Parameters: start.Parameters,
		Shape:      start.Shape,
		Tracks:     make([]Track, 0, pose.TargetCount),
		Legs:       make([]LegKeyframe, 0, steps+1),
	}
	for _, t := range pose.Targets() {
		clip.Tracks = append(clip.Tracks, Track{Target: t, Keyframes: make([]Keyframe, 0, steps+1)})
	}

	dt := 1 / float32(opts.FPS)
	clip.add(0, start)
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("recording interrupted: %w", err)
		}
		clip.add(float32(i)*dt, src.Tick(dt))
	}

	r.log.Info().
		Str("clip", clip.ID).
		Str("rig", clip.RigID).
		Int("frames", clip.Frames()).
		Float32("duration", clip.Duration).
		Msg("Clip recorded")
	r.bus.Publish(bus.Event{
		Type: bus.EventTypeClipRecorded,
		Data: map[string]any{"clip": clip.ID, "rig": clip.RigID, "frames": clip.Frames()},
	})
	return clip, nil
}

func (c *Clip) add(at float32, f rig.Frame) {
	for i := range c.Tracks {
		tf := f.Target(c.Tracks[i].Target)
		c.Tracks[i].Keyframes = append(c.Tracks[i].Keyframes, Keyframe{
			Time:     at,
			Position: tf.Position,
			Rotation: tf.Rotation,
		})
	}
	c.Legs = append(c.Legs, LegKeyframe{Time: at, Left: f.Legs.Left, Right: f.Legs.Right})
}
