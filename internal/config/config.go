package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Anton2181/partykajson/internal/optimizer"
	"github.com/Anton2181/partykajson/internal/penalty"
	"github.com/spf13/viper"
)

// ErrInvalidConfig wraps every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid configuration")

// EnvPrefix is prepended to every environment override, e.g. PARTYKA_LOG_LEVEL.
const EnvPrefix = "PARTYKA"

// Config is the complete partyka configuration.
type Config struct {
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Inputs    InputsConfig    `mapstructure:"inputs"`
	Output    OutputConfig    `mapstructure:"output"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	Sweep     SweepConfig     `mapstructure:"sweep"`
}

// OptimizerConfig holds the penalty ladder and solver budget.
type OptimizerConfig struct {
	// Ladder lists rule names, highest priority first.
	Ladder        []string `mapstructure:"ladder"`
	DisabledRules []string `mapstructure:"disabled_rules"`
	// PreferredPairs are two-element lists of person names.
	PreferredPairs [][]string `mapstructure:"preferred_pairs"`
	PenaltyRatio   int        `mapstructure:"penalty_ratio"`
	// TimeLimitSeconds bounds the search (0 = unbounded)
	TimeLimitSeconds float64 `mapstructure:"time_limit_seconds"`
	EffortThreshold  float64 `mapstructure:"effort_threshold"`
}

type InputsConfig struct {
	Tasks    string `mapstructure:"tasks"`
	Families string `mapstructure:"families"`
	Roster   string `mapstructure:"roster"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type StorageConfig struct {
	// DBPath supports a leading ~/ for the home directory.
	DBPath string `mapstructure:"db_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Textfile is where metrics are written after each solve (empty = disabled)
	Textfile string `mapstructure:"textfile"`
}

type ProgressConfig struct {
	// NATSURL enables progress publishing when set.
	NATSURL string `mapstructure:"nats_url"`
	Subject string `mapstructure:"subject"`
}

type SweepConfig struct {
	Workers int `mapstructure:"workers"`
}

func Default() *Config {
	return &Config{
		Optimizer: OptimizerConfig{
			Ladder:           append([]string(nil), penalty.DefaultOrder...),
			DisabledRules:    []string{},
			PreferredPairs:   [][]string{},
			PenaltyRatio:     penalty.DefaultRatio,
			TimeLimitSeconds: 30,
			EffortThreshold:  optimizer.DefaultEffortThreshold,
		},
		Output: OutputConfig{
			Dir: "out",
		},
		Storage: StorageConfig{
			DBPath: "~/.partyka/partyka.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Progress: ProgressConfig{
			Subject: "partyka.progress",
		},
		Sweep: SweepConfig{
			Workers: 2,
		},
	}
}

// SetDefaults registers every default on v so env overrides resolve even
// when no config file sets the key.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("optimizer.ladder", defaults.Optimizer.Ladder)
	v.SetDefault("optimizer.disabled_rules", defaults.Optimizer.DisabledRules)
	v.SetDefault("optimizer.preferred_pairs", defaults.Optimizer.PreferredPairs)
	v.SetDefault("optimizer.penalty_ratio", defaults.Optimizer.PenaltyRatio)
	v.SetDefault("optimizer.time_limit_seconds", defaults.Optimizer.TimeLimitSeconds)
	v.SetDefault("optimizer.effort_threshold", defaults.Optimizer.EffortThreshold)

	v.SetDefault("inputs.tasks", defaults.Inputs.Tasks)
	v.SetDefault("inputs.families", defaults.Inputs.Families)
	v.SetDefault("inputs.roster", defaults.Inputs.Roster)

	v.SetDefault("output.dir", defaults.Output.Dir)

	v.SetDefault("storage.db_path", defaults.Storage.DBPath)

	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetDefault("metrics.textfile", defaults.Metrics.Textfile)

	v.SetDefault("progress.nats_url", defaults.Progress.NATSURL)
	v.SetDefault("progress.subject", defaults.Progress.Subject)

	v.SetDefault("sweep.workers", defaults.Sweep.Workers)
}

// New returns a viper instance with defaults and PARTYKA_ env bindings.
// PARTYKA_DB is accepted as a shorthand for PARTYKA_STORAGE_DB_PATH.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("storage.db_path", EnvPrefix+"_STORAGE_DB_PATH", EnvPrefix+"_DB")
	return v
}

// Load reads path (JSON, YAML or TOML by extension) when non-empty, applies
// env overrides and validates the result.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates a prepared viper instance. Callers that
// bind command-line flags use this after binding.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// OptimizerConfig resolves the optimizer section into the value the
// optimizer consumes. Call after Validate.
func (c *Config) OptimizerConfig() optimizer.Config {
	pairs := make([][2]string, 0, len(c.Optimizer.PreferredPairs))
	for _, p := range c.Optimizer.PreferredPairs {
		if len(p) == 2 {
			pairs = append(pairs, [2]string{p[0], p[1]})
		}
	}
	return optimizer.Config{
		Ladder:          append([]string(nil), c.Optimizer.Ladder...),
		DisabledRules:   append([]string(nil), c.Optimizer.DisabledRules...),
		PreferredPairs:  pairs,
		PenaltyRatio:    c.Optimizer.PenaltyRatio,
		TimeLimit:       time.Duration(c.Optimizer.TimeLimitSeconds * float64(time.Second)),
		EffortThreshold: c.Optimizer.EffortThreshold,
	}
}

// ResolveDBPath expands a leading ~ in the configured database path.
func (c *Config) ResolveDBPath() (string, error) {
	return expandHome(c.Storage.DBPath)
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}
