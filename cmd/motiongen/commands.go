package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/record"
	"github.com/normanking/cortexmotion/internal/tuning"
)

// inspection is what `inspect` prints.
type inspection struct {
	Profile     string                `json:"profile"`
	Traits      personality.Traits    `json:"traits"`
	Effort      personality.Effort    `json:"effort"`
	Parameters  motion.Parameters     `json:"parameters"`
	Shape       motion.ShapeQualities `json:"shape"`
	Tuning      tuning.Tuning         `json:"tuning"`
	Overridden  bool                  `json:"overridden"`
	SpeedFactor float32               `json:"speedFactor"`
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the effort, parameters and tuning derived from a profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			r := a.newRig()
			st := r.State()
			f := r.Frame()
			return writeJSON(cmd, inspection{
				Profile:     a.profile.Name,
				Traits:      st.Traits,
				Effort:      st.Effort,
				Parameters:  st.Parameters,
				Shape:       st.Shape,
				Tuning:      f.Tuning,
				Overridden:  st.Overridden,
				SpeedFactor: f.SpeedFactor,
			})
		},
	}
}

func newRunCmd() *cobra.Command {
	var (
		ticks int
		fps   int
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate ticks and write one JSON frame per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks <= 0 {
				return fmt.Errorf("--ticks must be positive, got %d", ticks)
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			if fps <= 0 {
				fps = a.cfg.Server.FPS
			}
			if fps <= 0 {
				return fmt.Errorf("invalid frame rate %d", fps)
			}

			r := a.newRig()
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush()
			enc := json.NewEncoder(out)

			dt := 1 / float32(fps)
			for i := 0; i < ticks; i++ {
				if err := enc.Encode(r.Tick(dt)); err != nil {
					return fmt.Errorf("failed to write frame: %w", err)
				}
			}

			a.logger.Info("run", "Simulation complete", map[string]interface{}{
				"ticks": ticks,
				"fps":   fps,
				"rig":   r.ID(),
			})
			return nil
		},
	}
	cmd.Flags().IntVarP(&ticks, "ticks", "n", 90, "Number of ticks to simulate")
	cmd.Flags().IntVar(&fps, "fps", 0, "Tick rate (default server.fps)")
	return cmd
}

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a keyframe clip to a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rc := a.cfg.Record
			if cmd.Flags().Changed("fps") {
				rc.FPS, _ = cmd.Flags().GetInt("fps")
			}
			if cmd.Flags().Changed("duration") {
				rc.Duration, _ = cmd.Flags().GetDuration("duration")
			}
			if cmd.Flags().Changed("one-cycle") {
				rc.OneCycle, _ = cmd.Flags().GetBool("one-cycle")
			}
			if cmd.Flags().Changed("output") {
				rc.Output, _ = cmd.Flags().GetString("output")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rec := record.NewRecorder(a.logger.Component("record"), a.bus)
			clip, err := rec.Record(ctx, a.newRig(), record.Options{
				FPS:          rc.FPS,
				Duration:     rc.Duration,
				OneCycle:     rc.OneCycle,
				ArmFrequency: a.cfg.Motion.Arm.Frequency,
			})
			if err != nil {
				return err
			}
			if err := clip.Save(rc.Output); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded clip %s: %d frames over %.2fs -> %s\n",
				clip.ID, clip.Frames(), clip.Duration, rc.Output)
			return nil
		},
	}
	cmd.Flags().Int("fps", 0, "Sample rate (default record.fps)")
	cmd.Flags().Duration("duration", 0, "Clip length (default record.duration)")
	cmd.Flags().Bool("one-cycle", false, "Record exactly one gait cycle")
	cmd.Flags().StringP("output", "o", "", "Output path (default record.output)")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in personality presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b strings.Builder
			for _, name := range personality.PresetNames() {
				p, _ := personality.Preset(name)
				fmt.Fprintf(&b, "%-14s %s\n", name, p.Description)
				fmt.Fprintf(&b, "%-14s %s\n", "", p.Traits)
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
