// Package config provides configuration management for cortexmotion
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/normanking/cortexmotion/internal/logging"
	"github.com/normanking/cortexmotion/internal/pose"
	"github.com/normanking/cortexmotion/internal/rig"
)

// EnvPrefix prefixes every environment override, e.g. CORTEXMOTION_SERVER_ADDRESS.
const EnvPrefix = "CORTEXMOTION"

// Config holds all application configuration
type Config struct {
	Motion  rig.Config     `mapstructure:"motion" yaml:"motion"`
	Pose    pose.Config    `mapstructure:"pose" yaml:"pose"`
	Profile ProfileConfig  `mapstructure:"profile" yaml:"profile"`
	Server  ServerConfig   `mapstructure:"server" yaml:"server"`
	Record  RecordConfig   `mapstructure:"record" yaml:"record"`
	Logging logging.Config `mapstructure:"logging" yaml:"logging"`
}

// ProfileConfig selects the personality. Path wins over Preset.
type ProfileConfig struct {
	Path   string `mapstructure:"path" yaml:"path"`
	Preset string `mapstructure:"preset" yaml:"preset"`
	Watch  bool   `mapstructure:"watch" yaml:"watch"` // reload Path on change
}

// Ref returns the profile reference understood by personality.Resolve.
func (p ProfileConfig) Ref() string {
	if p.Path != "" {
		return p.Path
	}
	return p.Preset
}

// ServerConfig configures `serve`
type ServerConfig struct {
	Address      string        `mapstructure:"address" yaml:"address"`
	FPS          int           `mapstructure:"fps" yaml:"fps"`
	LogHistory   int           `mapstructure:"log_history" yaml:"log_history"` // entries served at /logs
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	SendBuffer   int           `mapstructure:"send_buffer" yaml:"send_buffer"` // frames queued per client
}

// RecordConfig configures `record`
type RecordConfig struct {
	FPS      int           `mapstructure:"fps" yaml:"fps"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	OneCycle bool          `mapstructure:"one_cycle" yaml:"one_cycle"` // stop after one gait cycle
	Output   string        `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Motion: rig.DefaultConfig(),
		Pose:   pose.DefaultConfig(),
		Profile: ProfileConfig{
			Preset: "neutral",
			Watch:  true,
		},
		Server: ServerConfig{
			Address:      "127.0.0.1:8765",
			FPS:          30,
			LogHistory:   200,
			WriteTimeout: 5 * time.Second,
			SendBuffer:   16,
		},
		Record: RecordConfig{
			FPS:      30,
			Duration: 4 * time.Second,
			Output:   "clip.json",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Dir returns the configuration directory, ~/.cortexmotion.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".cortexmotion"), nil
}

// DefaultPath returns ~/.cortexmotion/config.yaml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// envKeys are the settings that can be overridden from the environment.
var envKeys = []string{
	"motion.seed",
	"pose.gltf_path",
	"profile.path",
	"profile.preset",
	"profile.watch",
	"server.address",
	"server.fps",
	"record.fps",
	"record.duration",
	"record.output",
	"logging.dir",
	"logging.level",
	"logging.console",
}

// Load reads configuration from path and the environment. An empty path
// means DefaultPath(). A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return cfg, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(cfg, path); err != nil {
			return cfg, err
		}
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
