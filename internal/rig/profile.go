package rig

import (
	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/posture"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// profile is everything derived from one personality. It is never mutated
// after construction so ticks can hold it without the lock.
type profile struct {
	traits       personality.Traits
	effort       personality.Effort
	params       motion.Parameters
	shape        motion.ShapeQualities
	tuning       tuning.Tuning
	displacement posture.Displacement
	weights      posture.Weights
	overridden   bool
}

func newProfile(t personality.Traits, cfg Config) *profile {
	t = t.Clamped()
	effort := personality.Convert(t)
	params, shape := motion.Compute(effort)
	return &profile{
		traits:       t,
		effort:       effort,
		params:       params,
		shape:        shape,
		tuning:       tuning.Derive(params, cfg.Speed).WithEffort(effort),
		displacement: posture.Displace(shape, cfg.Shape),
		weights:      posture.ComputeWeights(t, effort, cfg.Posture.Weights),
	}
}

// withParameters keeps traits, effort and shape and swaps in p.
func (p *profile) withParameters(params motion.Parameters, cfg Config) *profile {
	params = params.Sanitized()
	return &profile{
		traits:       p.traits,
		effort:       p.effort,
		params:       params,
		shape:        p.shape,
		tuning:       tuning.Derive(params, cfg.Speed).WithEffort(p.effort),
		displacement: p.displacement,
		weights:      p.weights,
		overridden:   true,
	}
}
