package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	LogLevel string      `mapstructure:"log_level"`
	Audio    AudioConfig `mapstructure:"audio"`
	Paths    PathsConfig `mapstructure:"paths"`
}

type AudioConfig struct {
	SampleRate     int     `mapstructure:"sample_rate"`
	MinDurationSec float64 `mapstructure:"min_duration_sec"`
	Workers        int     `mapstructure:"workers"`
}

type PathsConfig struct {
	Output string `mapstructure:"output"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Audio: AudioConfig{
			SampleRate:     24000,
			MinDurationSec: 0,
			Workers:        0,
		},
		Paths: PathsConfig{
			Output: "out.wav",
		},
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
	fs.Int("audio-sample-rate", defaults.Audio.SampleRate, "Output sample rate in Hz")
	fs.Float64("audio-min-duration", defaults.Audio.MinDurationSec, "Minimum output duration in seconds")
	fs.Int("audio-workers", defaults.Audio.Workers, "Concurrent resample workers (0 = number of CPUs)")
	fs.String("paths-output", defaults.Paths.Output, "Default output WAV path")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("VOXSHIFT")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("voxshift")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Audio.SampleRate < 1 {
		return Config{}, fmt.Errorf("audio.sample_rate must be positive, got %d", cfg.Audio.SampleRate)
	}
	if cfg.Audio.MinDurationSec < 0 {
		return Config{}, fmt.Errorf("audio.min_duration_sec must be >= 0, got %g", cfg.Audio.MinDurationSec)
	}

	return cfg, nil
}

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("audio.sample_rate", c.Audio.SampleRate)
	v.SetDefault("audio.min_duration_sec", c.Audio.MinDurationSec)
	v.SetDefault("audio.workers", c.Audio.Workers)
	v.SetDefault("paths.output", c.Paths.Output)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("log_level", "log-level")
	v.RegisterAlias("audio.sample_rate", "audio-sample-rate")
	v.RegisterAlias("audio.min_duration_sec", "audio-min-duration")
	v.RegisterAlias("audio.workers", "audio-workers")
	v.RegisterAlias("paths.output", "paths-output")
}
