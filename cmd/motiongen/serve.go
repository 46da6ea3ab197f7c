package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/normanking/cortexmotion/internal/bus"
	"github.com/normanking/cortexmotion/internal/metrics"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/rig"
	"github.com/normanking/cortexmotion/internal/stream"
)

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rig in real time and stream frames over WebSocket",
		Long: `serve ticks the rig at server.fps and exposes:

  /ws       JSON frame stream plus rig/profile events and log entries;
            clients may send personality, preset and reset messages
  /state    current rig state
  /metrics  Prometheus metrics
  /logs     recent log entries (?limit=N)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if addr != "" {
				a.cfg.Server.Address = addr
			}
			return serve(a)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default server.address)")
	return cmd
}

func serve(a *app) error {
	sc := a.cfg.Server
	if sc.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", sc.FPS)
	}
	log := a.logger.Component("serve")

	collector := metrics.New()
	r := a.newRig(rig.WithObserver(collector))
	hub := stream.NewHub(stream.Config{
		SendBuffer:   sc.SendBuffer,
		WriteTimeout: sc.WriteTimeout,
	}, r, a.logger.Component("stream"), a.bus, collector)
	a.logger.SetOnLog(hub.SendLog)
	defer a.logger.SetOnLog(nil)

	if a.cfg.Profile.Watch && a.cfg.Profile.Path != "" {
		w, err := watchProfile(a, r)
		if err != nil {
			log.Warn().Err(err).Msg("Profile hot reload disabled")
		} else {
			defer w.Close()
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.Handle("/metrics", collector.Handler())
	mux.HandleFunc("/state", func(w http.ResponseWriter, req *http.Request) {
		writeHTTPJSON(w, r.State())
	})
	mux.HandleFunc("/logs", func(w http.ResponseWriter, req *http.Request) {
		limit := sc.LogHistory
		if v := req.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		writeHTTPJSON(w, a.logger.GetHistory(limit))
	})

	srv := &http.Server{
		Addr:              sc.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	a.logger.Info("serve", "Motion server started", map[string]interface{}{
		"address": sc.Address,
		"fps":     sc.FPS,
		"rig":     r.ID(),
		"profile": a.profile.Name,
		"logFile": a.logger.GetLogPath(),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := tickLoop(ctx, r, hub, sc.FPS, errCh)

	hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("serve", "Shutdown error", err, nil)
		if runErr == nil {
			runErr = err
		}
	}

	a.logger.Info("serve", "Motion server stopped", map[string]interface{}{"ticks": r.State().Tick})
	return runErr
}

// tickLoop drives the rig from wall-clock deltas until ctx is done or the
// listener fails.
func tickLoop(ctx context.Context, r *rig.Rig, hub *stream.Hub, fps int, errCh <-chan error) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case now := <-ticker.C:
			dt := float32(now.Sub(last).Seconds())
			last = now
			hub.Broadcast(r.Tick(dt))
		}
	}
}

func watchProfile(a *app, r *rig.Rig) (*personality.Watcher, error) {
	path := a.cfg.Profile.Path
	return personality.NewWatcher(path, func(p personality.Profile) {
		r.SetTraits(p.Traits)
		a.bus.Publish(bus.Event{
			Type: bus.EventTypeProfileReloaded,
			Data: map[string]any{"path": path, "profile": p.Name},
		})
	}, a.logger.Component("profile"), personality.OnReloadError(func(err error) {
		a.bus.Publish(bus.Event{
			Type: bus.EventTypeProfileReloadFailed,
			Data: map[string]any{"path": path, "error": err.Error()},
		})
	}))
}

func writeHTTPJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
