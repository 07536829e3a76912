// Package config loads the ecsact-cpp command line configuration from
// ecsact-cpp.yaml, ECSACT_CPP_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ecsact-dev/ecsact-lang-cpp/internal/logx"
)

const (
	// FileName is the config file name, searched in the working directory
	// with a .yaml or .yml extension.
	FileName = "ecsact-cpp"
	// EnvPrefix prefixes environment overrides, e.g. ECSACT_CPP_OUT_DIR.
	EnvPrefix = "ECSACT_CPP"
)

// DefaultPlugins are the plugins run when none are configured.
var DefaultPlugins = []string{"hh", "meta.hh", "systems.hh", "systems.cc", "systems.h"}

// Config is the command line configuration.
type Config struct {
	// Inputs are snapshot files, used when no arguments are given.
	Inputs   []string    `mapstructure:"inputs"`
	OutDir   string      `mapstructure:"out_dir"`
	Plugins  []string    `mapstructure:"plugins"`
	Workers  int         `mapstructure:"workers"`
	Features []string    `mapstructure:"features"`
	Header   string      `mapstructure:"header"`
	Log      logx.Config `mapstructure:"log"`
	Watch    WatchConfig `mapstructure:"watch"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// New returns a viper instance with defaults, config file lookup and
// environment overrides set up. Callers may bind flags before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("inputs", []string{})
	v.SetDefault("out_dir", ".")
	v.SetDefault("plugins", DefaultPlugins)
	v.SetDefault("workers", 0)
	v.SetDefault("features", []string{})
	v.SetDefault("header", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.dev", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", false)
	v.SetDefault("watch.debounce", "100ms")

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and decodes v into a validated
// Config. An explicit file must exist; the default one is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	var errs []error
	if cfg.OutDir == "" {
		errs = append(errs, errors.New("out_dir must not be empty"))
	}
	if len(cfg.Plugins) == 0 {
		errs = append(errs, errors.New("plugins must name at least one plugin"))
	}
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got: %d", cfg.Workers))
	}
	if cfg.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got: %s", cfg.Watch.Debounce))
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got: %q", cfg.Log.Level))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
