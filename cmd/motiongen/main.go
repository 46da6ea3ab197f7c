// Package main provides the motiongen CLI: it drives a personality-based
// motion rig offline or streams it in real time.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/normanking/cortexmotion/internal/bus"
	"github.com/normanking/cortexmotion/internal/config"
	"github.com/normanking/cortexmotion/internal/logging"
	"github.com/normanking/cortexmotion/internal/motion"
	"github.com/normanking/cortexmotion/internal/personality"
	"github.com/normanking/cortexmotion/internal/pose"
	"github.com/normanking/cortexmotion/internal/rig"
)

// Version information (set at build time)
var version = "dev"

var (
	configPath string
	profileRef string
	paramsPath string
	seed       int64
	logLevel   string
)

// app is the state shared by every command.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	bus     *bus.EventBus
	profile personality.Profile
	rest    pose.Rest
	params  *motion.Parameters
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if profileRef != "" {
		cfg.Profile.Path = ""
		cfg.Profile.Preset = profileRef
		if _, ok := personality.Preset(profileRef); !ok {
			cfg.Profile.Path = profileRef
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Motion.Seed = seed
	}
	if logLevel != "" {
		cfg.Logging.Level = logging.LogLevel(logLevel)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	profile, err := personality.Resolve(cfg.Profile.Ref())
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to resolve profile %q: %w", cfg.Profile.Ref(), err)
	}

	rest, err := pose.Load(cfg.Pose, logger.Component("pose"))
	if err != nil {
		logger.Close()
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		bus:     bus.NewEventBus(),
		profile: profile,
		rest:    rest,
	}

	if paramsPath != "" {
		p, err := loadParameters(paramsPath)
		if err != nil {
			logger.Close()
			return nil, err
		}
		a.params = &p
	}

	logger.Debug("cli", "Application initialized", map[string]interface{}{
		"profile": profile.Name,
		"traits":  profile.Traits.String(),
		"gltf":    cfg.Pose.GLTFPath,
	})
	return a, nil
}

// newRig builds a rig for the resolved profile. Explicit parameters from
// --params replace the derived ones.
func (a *app) newRig(opts ...rig.Option) *rig.Rig {
	opts = append([]rig.Option{
		rig.WithLogger(a.logger.Component("rig")),
		rig.WithBus(a.bus),
		rig.WithTraits(a.profile.Traits),
	}, opts...)
	r := rig.New(a.rest, a.cfg.Motion, opts...)
	if a.params != nil {
		r.SetMotionParameters(*a.params)
	}
	return r
}

func (a *app) Close() {
	a.bus.Close()
	a.logger.Close()
}

func loadParameters(path string) (motion.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return motion.Parameters{}, fmt.Errorf("failed to read parameters: %w", err)
	}
	var p motion.Parameters
	if err := yaml.Unmarshal(data, &p); err != nil {
		return motion.Parameters{}, fmt.Errorf("failed to parse parameters %s: %w", path, err)
	}
	return p, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "motiongen",
		Short: "Personality-driven procedural body motion",
		Long: `motiongen turns five-factor personality traits into procedural
motion for a humanoid rig: arm swing, stride, head motion and posture.

Use 'motiongen [command] --help' for more information.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "Config file (default ~/.cortexmotion/config.yaml)")
	flags.StringVarP(&profileRef, "profile", "p", "", "Personality preset name or profile YAML path")
	flags.StringVar(&paramsPath, "params", "", "YAML file of motion parameters overriding the profile")
	flags.Int64Var(&seed, "seed", 0, "Seed for head noise (0 picks one from the clock)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newPresetsCmd())

	if err := rootCmd.Execute(); err != nil {
		log := cliLogger(os.Stderr)
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// cliLogger reports failures that may happen before the app logger exists.
func cliLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}).
		With().
		Timestamp().
		Logger()
}
