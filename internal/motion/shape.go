package motion

import (
	"github.com/normanking/cortexmotion/internal/numeric"
	"github.com/normanking/cortexmotion/internal/personality"
)

// ShapeQualities are the spatial tendencies of the body, each in [-1, 1].
type ShapeQualities struct {
	EnclosingSpreading  float32 `json:"enclosingSpreading"`
	SinkingRising       float32 `json:"sinkingRising"`
	RetreatingAdvancing float32 `json:"retreatingAdvancing"`
}

const (
	flowInfluence        float32 = 0.2
	neuroticismInfluence float32 = 0.15
	crossInfluence       float32 = 0.1
)

// ComputeShape derives shape qualities: space, weight and time map directly
// (negated), flow, time and weight add small cross terms, and the sums are
// clamped last.
func ComputeShape(e personality.Effort) ShapeQualities {
	es := -e.Space
	sr := -e.Weight
	ra := -e.Time

	es += e.Flow * flowInfluence
	sr -= e.Flow * flowInfluence

	ra += e.Weight * crossInfluence
	es -= e.Time * crossInfluence

	n := e.Flow * neuroticismInfluence
	es += n
	sr += n
	ra -= n

	return ShapeQualities{
		EnclosingSpreading:  numeric.Clamp(es, -1, 1),
		SinkingRising:       numeric.Clamp(sr, -1, 1),
		RetreatingAdvancing: numeric.Clamp(ra, -1, 1),
	}
}
