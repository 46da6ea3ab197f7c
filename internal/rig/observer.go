package rig

import (
	"time"

	"github.com/normanking/cortexmotion/internal/limb"
)

// Observer receives rig telemetry. Calls are made on the ticking goroutine
// (or the goroutine changing personality) and must not block.
type Observer interface {
	ObserveTick(d time.Duration, f *Frame)
	ObserveLegTransition(leg string, state limb.LegState)
	ObservePersonalityChange(source string)
}

type nopObserver struct{}

func (nopObserver) ObserveTick(time.Duration, *Frame)           {}
func (nopObserver) ObserveLegTransition(string, limb.LegState) {}
func (nopObserver) ObservePersonalityChange(string)            {}
