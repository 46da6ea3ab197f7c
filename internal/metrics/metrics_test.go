package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/cortexmotion/internal/limb"
	"github.com/normanking/cortexmotion/internal/pose"
	"github.com/normanking/cortexmotion/internal/rig"
)

func TestObserveTick(t *testing.T) {
	c := New()
	c.ObserveTick(2*time.Millisecond, &rig.Frame{SpeedFactor: 1.25, Phase: -0.5, Sanitized: 3})
	c.ObserveTick(time.Millisecond, &rig.Frame{SpeedFactor: 1.5})

	assert.Equal(t, float64(2), testutil.ToFloat64(c.Ticks))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.SanitizedValues))
	assert.Equal(t, 1.5, testutil.ToFloat64(c.SpeedFactor))
	assert.Equal(t, float64(0), testutil.ToFloat64(c.GaitPhase))
	assert.Equal(t, 1, testutil.CollectAndCount(c.TickDuration))
}

func TestLabelledCounters(t *testing.T) {
	c := New()
	c.ObserveLegTransition("left", limb.BackSwing)
	c.ObserveLegTransition("left", limb.BackSwing)
	c.ObserveLegTransition("right", limb.Forward)
	c.ObservePersonalityChange("traits")

	assert.Equal(t, float64(2), testutil.ToFloat64(c.LegTransitions.WithLabelValues("left", "back_swing")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.LegTransitions.WithLabelValues("right", "forward")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.PersonalityChanges.WithLabelValues("traits")))
}

func TestStreamGauges(t *testing.T) {
	c := New()
	c.ClientConnected()
	c.ClientConnected()
	c.ClientDisconnected()
	c.FrameDropped()
	assert.Equal(t, float64(1), testutil.ToFloat64(c.StreamClients))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.DroppedFrames))
}

func TestCollectorAsRigObserver(t *testing.T) {
	c := New()
	cfg := rig.DefaultConfig()
	cfg.Seed = 3
	r := rig.New(pose.Default(), cfg, rig.WithObserver(c))
	r.SetPersonality(0, 0, 1, 0, 0)
	for i := 0; i < 10; i++ {
		r.Tick(1.0 / 30)
	}

	assert.Equal(t, float64(10), testutil.ToFloat64(c.Ticks))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.PersonalityChanges.WithLabelValues("traits")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.LegTransitions.WithLabelValues("right", "back_swing")))
}

func TestHandlerServesMetrics(t *testing.T) {
	c := New()
	c.Ticks.Inc()

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cortexmotion_ticks_total 1")
}
