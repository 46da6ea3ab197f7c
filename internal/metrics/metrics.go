// Package metrics exports rig telemetry to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/normanking/cortexmotion/internal/limb"
	"github.com/normanking/cortexmotion/internal/rig"
)

// Collector implements rig.Observer.
type Collector struct {
	reg *prometheus.Registry

	TickDuration       prometheus.Histogram
	Ticks              prometheus.Counter
	SanitizedValues    prometheus.Counter
	SpeedFactor        prometheus.Gauge
	GaitPhase          prometheus.Gauge
	LegTransitions     *prometheus.CounterVec
	PersonalityChanges *prometheus.CounterVec
	StreamClients      prometheus.Gauge
	DroppedFrames      prometheus.Counter
}

var _ rig.Observer = (*Collector)(nil)

// New registers the rig metrics on a fresh registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		reg: reg,
		TickDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cortexmotion_tick_duration_seconds",
				Help:    "Time spent computing one frame",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
		),
		Ticks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cortexmotion_ticks_total",
				Help: "Total number of frames computed",
			},
		),
		SanitizedValues: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cortexmotion_sanitized_values_total",
				Help: "Non-finite values replaced by a fallback",
			},
		),
		SpeedFactor: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cortexmotion_speed_factor",
				Help: "Current gait playback speed multiplier",
			},
		),
		GaitPhase: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cortexmotion_gait_phase",
				Help: "Current gait phase in [-1, 1]",
			},
		),
		LegTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cortexmotion_leg_transitions_total",
				Help: "Leg state machine transitions",
			},
			[]string{"leg", "state"},
		),
		PersonalityChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cortexmotion_personality_changes_total",
				Help: "Personality or parameter updates applied to the rig",
			},
			[]string{"source"},
		),
		StreamClients: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cortexmotion_stream_clients",
				Help: "Connected frame stream clients",
			},
		),
		DroppedFrames: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cortexmotion_stream_dropped_frames_total",
				Help: "Frames dropped for slow stream clients",
			},
		),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collector) ObserveTick(d time.Duration, f *rig.Frame) {
	c.TickDuration.Observe(d.Seconds())
	c.Ticks.Inc()
	if f.Sanitized > 0 {
		c.SanitizedValues.Add(float64(f.Sanitized))
	}
	c.SpeedFactor.Set(float64(f.SpeedFactor))
	c.GaitPhase.Set(float64(f.Phase))
}

func (c *Collector) ObserveLegTransition(leg string, state limb.LegState) {
	c.LegTransitions.WithLabelValues(leg, state.String()).Inc()
}

func (c *Collector) ObservePersonalityChange(source string) {
	c.PersonalityChanges.WithLabelValues(source).Inc()
}

// ClientConnected and ClientDisconnected track stream clients.
func (c *Collector) ClientConnected()    { c.StreamClients.Inc() }
func (c *Collector) ClientDisconnected() { c.StreamClients.Dec() }

// FrameDropped counts a frame not delivered to a slow client.
func (c *Collector) FrameDropped() { c.DroppedFrames.Inc() }
