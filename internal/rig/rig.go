// Package rig drives the full motion pipeline for one character: personality
// in, per-tick target transforms out.
package rig

import (
	"math/rand"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/normanking/cortexmotion/internal/bus"
	"github.com/normanking/cortexmotion/internal/head"
	"github.com/normanking/cortexmotion/internal/limb"
	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/numeric"
	"github.com/normanking/cortexmotion/internal/oscillator"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/pose"
	"github.com/normanking/cortexmotion/internal/posture"
)

const (
	legLeft  = "left"
	legRight = "right"
)

// Rig owns the clocks, generators and current profile of one character.
// Tick is meant for a single driver goroutine; personality setters and
// queries may be called from any goroutine.
type Rig struct {
	mu sync.RWMutex

	id   string
	cfg  Config
	rest pose.Rest

	profile *profile

	bank     *oscillator.Bank
	head     *head.Generator
	headSway *posture.HeadSway
	torso    *posture.Torso
	legs     [2]*limb.LegTracker

	frame Frame
	tick  uint64

	noise    head.Noise
	log      zerolog.Logger
	bus      *bus.EventBus
	observer Observer
}

// Option configures a Rig.
type Option func(*Rig)

func WithLogger(l zerolog.Logger) Option {
	return func(r *Rig) { r.log = l }
}

func WithBus(b *bus.EventBus) Option {
	return func(r *Rig) { r.bus = b }
}

func WithObserver(o Observer) Option {
	return func(r *Rig) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithNoise replaces the Perlin head noise.
func WithNoise(n head.Noise) Option {
	return func(r *Rig) { r.noise = n }
}

// WithTraits sets the starting personality. The default is neutral.
func WithTraits(t personality.Traits) Option {
	return func(r *Rig) { r.profile = newProfile(t, r.cfg) }
}

// New creates a rig posed at rest.
func New(rest pose.Rest, cfg Config, opts ...Option) *Rig {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &Rig{
		id:       uuid.NewString(),
		cfg:      cfg,
		rest:     rest,
		log:      zerolog.Nop(),
		observer: nopObserver{},
	}
	r.profile = newProfile(personality.Traits{}, cfg)
	for _, opt := range opts {
		opt(r)
	}
	if r.noise == nil {
		r.noise = head.NewPerlinNoise(seed)
	}

	r.bank = oscillator.NewBank(rand.New(rand.NewSource(seed)))
	r.head = head.NewGenerator(r.noise, cfg.Head)
	r.headSway = posture.NewHeadSway(cfg.Posture)
	r.torso = posture.NewTorso(cfg.Posture)
	r.legs = [2]*limb.LegTracker{
		limb.NewLegTracker(cfg.Leg.PeakThreshold),
		limb.NewLegTracker(cfg.Leg.PeakThreshold),
	}
	r.frame = r.restFrame(r.profile)

	r.log.Debug().Str("rig", r.id).Int64("seed", seed).Msg("Rig created")
	return r
}

// ID identifies this rig instance in logs and recorded clips.
func (r *Rig) ID() string {
	return r.id
}

// SetPersonality replaces all five traits at once. Values are clamped.
func (r *Rig) SetPersonality(o, c, e, a, n float32) {
	r.SetTraits(personality.NewTraits(o, c, e, a, n))
}

// SetTraits replaces the personality. The derived effort, parameters, shape
// and tuning are rebuilt together and swapped in as one snapshot.
func (r *Rig) SetTraits(t personality.Traits) {
	p := newProfile(t, r.cfg)

	r.mu.Lock()
	r.profile = p
	r.mu.Unlock()

	r.log.Info().
		Str("rig", r.id).
		Str("traits", p.traits.String()).
		Str("effort", p.effort.String()).
		Float32("speed_factor", p.tuning.SpeedFactor).
		Msg("Personality updated")
	r.observer.ObservePersonalityChange("traits")
	r.bus.Publish(bus.Event{
		Type: bus.EventTypePersonalityChanged,
		Data: map[string]any{"rig": r.id, "traits": p.traits, "effort": p.effort},
	})
}

// SetMotionParameters overrides the parameters computed from personality
// until the next personality change. Non-finite values become zero.
func (r *Rig) SetMotionParameters(params motion.Parameters) {
	r.mu.Lock()
	p := r.profile.withParameters(params, r.cfg)
	r.profile = p
	r.mu.Unlock()

	r.log.Info().Str("rig", r.id).Float32("speed_factor", p.tuning.SpeedFactor).Msg("Motion parameters overridden")
	r.observer.ObservePersonalityChange("parameters")
	r.bus.Publish(bus.Event{
		Type: bus.EventTypeParametersOverridden,
		Data: map[string]any{"rig": r.id, "parameters": p.params},
	})
}

// Tick advances time by dt seconds and returns the new frame. Negative or
// non-finite dt counts as zero.
func (r *Rig) Tick(dt float32) Frame {
	start := time.Now()
	if !numeric.IsFinite(dt) || dt < 0 {
		dt = 0
	}

	r.mu.Lock()
	p := r.profile
	r.bank.Advance(dt, p.tuning.SpeedFactor)
	r.tick++
	legs, transitions := r.updateLegs()

	var g numeric.Guard
	f := r.compose(p, dt, legs, &g)
	f.Sanitized = g.Replaced()
	r.frame = f
	r.mu.Unlock()

	for _, tr := range transitions {
		r.log.Debug().Str("rig", r.id).Str("leg", tr.leg).Str("state", tr.state.String()).Msg("Leg state changed")
		r.observer.ObserveLegTransition(tr.leg, tr.state)
		r.bus.Publish(bus.Event{
			Type: bus.EventTypeLegStateChanged,
			Data: map[string]any{"rig": r.id, "leg": tr.leg, "state": tr.state.String(), "tick": f.Tick},
		})
	}
	if f.Sanitized > 0 {
		r.log.Warn().Str("rig", r.id).Int("count", f.Sanitized).Uint64("tick", f.Tick).Msg("Replaced non-finite values")
	}
	r.observer.ObserveTick(time.Since(start), &f)
	return f
}

type legTransition struct {
	leg   string
	state limb.LegState
}

// updateLegs runs the stride state machines. The right leg sees the
// negated derivative. Called with the lock held.
func (r *Rig) updateLegs() (LegStates, []legTransition) {
	derivative := r.bank.Gait.Cos(r.cfg.Arm.Frequency)

	var out []legTransition
	left, changed := r.legs[0].Update(derivative)
	if changed {
		out = append(out, legTransition{legLeft, left})
	}
	right, changed := r.legs[1].Update(-derivative)
	if changed {
		out = append(out, legTransition{legRight, right})
	}
	return LegStates{Left: left, Right: right}, out
}

// compose builds the frame for the current clocks. Called with the lock held.
func (r *Rig) compose(p *profile, dt float32, legs LegStates, g *numeric.Guard) Frame {
	cfg := r.cfg
	tu := p.tuning
	d := p.displacement
	phase := r.bank.Gait.Sin(cfg.Arm.Frequency)
	t := r.bank.Head.Elapsed()

	f := Frame{
		Tick:        r.tick,
		Elapsed:     t,
		GaitTime:    r.bank.Gait.Elapsed(),
		Phase:       g.Float(phase, 0),
		SpeedFactor: g.Float(tu.SpeedFactor, 1),
		Traits:      p.traits,
		Effort:      p.effort,
		Parameters:  p.params,
		Shape:       p.shape,
		Tuning:      tu,
		Legs:        legs,
		Weights:     p.weights,
	}

	set := func(target pose.Target, pos mgl32.Vec3, rot mgl32.Quat) {
		restPos := r.rest.Get(target).Position
		pos = g.Vec3(pos)
		f.Targets[target] = TargetFrame{
			Position: pos,
			Rotation: g.Quat(rot),
			Offset:   pos.Sub(restPos),
		}
	}

	arm := func(target pose.Target, side float32, shape mgl32.Vec3) {
		rest := r.rest.Get(target)
		pos := limb.ArmSwing(side*phase, tu, cfg.Arm).Place(rest.Position.Add(shape), rest.Position, cfg.Arm.FloorHeight)
		pos = pos.Add(posture.HandOffset(p.params, side, cfg.Posture))
		set(target, pos, limb.Wrist(phase, rest.Rotation, cfg.Wrist))
	}
	arm(pose.LeftArm, 1, d.LeftHand)
	arm(pose.RightArm, -1, d.RightHand)

	leg := func(target pose.Target, side float32, state limb.LegState, shape mgl32.Vec3, rot mgl32.Quat) {
		rest := r.rest.Get(target)
		swing := limb.LegSwing(side*phase, tu, cfg.Leg)
		pos := limb.PlaceLeg(swing, state, rest.Position.Add(shape), rest.Position, cfg.Leg.FloorHeight)
		pos = pos.Add(posture.LegOffset(t, p.params, side, cfg.Posture))
		set(target, pos, rest.Rotation.Mul(rot))
	}
	leg(pose.LeftLeg, 1, legs.Left, d.LeftFoot, d.LeftFootRotation)
	leg(pose.RightLeg, -1, legs.Right, d.RightFoot, d.RightFootRotation)

	noise := r.head.Update(&r.bank.Head, tu, dt)
	sway := r.headSway.Update(t, p.params, dt)
	headRest := r.rest.Get(pose.Head)
	set(pose.Head, headRest.Position.Add(d.Head).Add(noise).Add(sway), headRest.Rotation)

	torsoOffset, torsoRot := r.torso.Update(t, p.params, p.shape, dt)
	torsoRest := r.rest.Get(pose.Torso)
	set(pose.Torso, torsoRest.Position.Add(d.Hips).Add(torsoOffset), torsoRest.Rotation.Mul(torsoRot))

	fixed := func(target pose.Target, shape mgl32.Vec3) {
		rest := r.rest.Get(target)
		set(target, rest.Position.Add(shape), rest.Rotation)
	}
	fixed(pose.Chest, d.Chest)
	fixed(pose.LeftShoulder, d.LeftShoulder)
	fixed(pose.RightShoulder, d.RightShoulder)

	return f
}

// restFrame is the frame reported before the first tick.
func (r *Rig) restFrame(p *profile) Frame {
	f := Frame{
		Traits:      p.traits,
		Effort:      p.effort,
		Parameters:  p.params,
		Shape:       p.shape,
		Tuning:      p.tuning,
		SpeedFactor: p.tuning.SpeedFactor,
		Legs:        LegStates{Left: limb.Forward, Right: limb.Forward},
		Weights:     p.weights,
	}
	for _, t := range pose.Targets() {
		rest := r.rest.Get(t)
		f.Targets[t] = TargetFrame{Position: rest.Position, Rotation: rest.Rotation}
	}
	return f
}

// Frame returns the most recent frame.
func (r *Rig) Frame() Frame {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}

// State summarizes the rig's current personality and clocks.
type State struct {
	ID         string                `json:"id"`
	Traits     personality.Traits    `json:"traits"`
	Effort     personality.Effort    `json:"effort"`
	Parameters motion.Parameters     `json:"parameters"`
	Shape      motion.ShapeQualities `json:"shape"`
	Weights    posture.Weights       `json:"weights"`
	Overridden bool                  `json:"overridden"`
	Tick       uint64                `json:"tick"`
	Elapsed    float32               `json:"elapsed"`
	GaitTime   float32               `json:"gaitTime"`
}

func (r *Rig) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p := r.profile
	return State{
		ID:         r.id,
		Traits:     p.traits,
		Effort:     p.effort,
		Parameters: p.params,
		Shape:      p.shape,
		Weights:    p.weights,
		Overridden: p.overridden,
		Tick:       r.tick,
		Elapsed:    r.bank.Head.Elapsed(),
		GaitTime:   r.bank.Gait.Elapsed(),
	}
}

// Reset rewinds the clocks and returns every generator to rest. The
// personality is kept.
func (r *Rig) Reset() {
	r.mu.Lock()
	r.bank.Reset()
	r.head.Reset()
	r.headSway.Reset()
	r.torso.Reset()
	for _, lt := range r.legs {
		lt.Reset()
	}
	r.tick = 0
	r.frame = r.restFrame(r.profile)
	r.mu.Unlock()

	r.log.Info().Str("rig", r.id).Msg("Rig reset")
	r.bus.Publish(bus.Event{Type: bus.EventTypeRigReset, Data: map[string]any{"rig": r.id}})
}
