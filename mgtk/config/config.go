package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/mg-tokens/mgtk"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/oracle"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Beam       BeamConfig       `mapstructure:"beam"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Vocabulary VocabularyConfig `mapstructure:"vocabulary"`
	Log        LogConfig        `mapstructure:"log"`
}

// BeamConfig stores the grammar search bounds passed to the oracle.
type BeamConfig struct {
	MinLogProb float64 `mapstructure:"minLogProb"`
	MoveProb   float64 `mapstructure:"moveProb"`
	MaxSteps   int     `mapstructure:"maxSteps"`
	NBeams     int     `mapstructure:"nBeams"`
}

// EngineConfig stores mask engine settings.
type EngineConfig struct {
	// Workers bounds concurrent row scans; 0 picks a default from the CPU count.
	Workers  int    `mapstructure:"workers"`
	Category string `mapstructure:"category"`
}

// VocabularyConfig stores where the vocabulary snapshot lives.
type VocabularyConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig stores logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ToOracle converts to the oracle's configuration type.
func (b BeamConfig) ToOracle() oracle.BeamConfig {
	return oracle.BeamConfig{
		MinLogProb: b.MinLogProb,
		MoveProb:   b.MoveProb,
		MaxSteps:   b.MaxSteps,
		NBeams:     b.NBeams,
	}
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	defaults := oracle.DefaultBeamConfig()
	v.SetDefault("beam.minLogProb", defaults.MinLogProb)
	v.SetDefault("beam.moveProb", defaults.MoveProb)
	v.SetDefault("beam.maxSteps", defaults.MaxSteps)
	v.SetDefault("beam.nBeams", defaults.NBeams)
	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.category", "C")
	v.SetDefault("vocabulary.path", internal.DefaultVocabularyFile)
	v.SetDefault("log.level", internal.DefaultLogLevel)

	v.AutomaticEnv()                                   // Read in environment variables that match
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // beam.nBeams becomes BEAM_NBEAMS

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file: defaults and environment apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Beam.ToOracle().Validate(); err != nil {
		return nil, err
	}
	if cfg.Engine.Workers < 0 {
		return nil, fmt.Errorf("engine.workers must not be negative, got %d", cfg.Engine.Workers)
	}

	AppConfig = cfg
	return &cfg, nil
}
