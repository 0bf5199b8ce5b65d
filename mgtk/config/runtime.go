package config

import (
	"context"
	"fmt"

	internal "github.com/ZanzyTHEbar/mg-tokens/mgtk"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/mask"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/oracle"
	"github.com/ZanzyTHEbar/mg-tokens/mgtk/vocab"
)

// Runtime is a mask engine assembled from a Config.
type Runtime struct {
	Vocabulary *vocab.Vocabulary
	Engine     *mask.Engine
	Category   string
	Beam       oracle.BeamConfig
}

// NewRuntime loads the vocabulary snapshot at cfg.Vocabulary.Path and builds
// an engine over o with the configured log level and worker count.
func NewRuntime(cfg *Config, o oracle.Oracle) (*Runtime, error) {
	v, err := vocab.Load(cfg.Vocabulary.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary %s: %w", cfg.Vocabulary.Path, err)
	}
	return NewRuntimeWith(cfg, v, o), nil
}

// NewRuntimeWith is NewRuntime for an already loaded vocabulary.
func NewRuntimeWith(cfg *Config, v *vocab.Vocabulary, o oracle.Oracle) *Runtime {
	logger := internal.NewLogger(cfg.Log.Level).With().Str("component", "mask").Logger()

	opts := []mask.Option{mask.WithLogger(logger)}
	if cfg.Engine.Workers > 0 {
		opts = append(opts, mask.WithWorkers(cfg.Engine.Workers))
	}
	return &Runtime{
		Vocabulary: v,
		Engine:     mask.NewEngine(v, o, opts...),
		Category:   cfg.Engine.Category,
		Beam:       cfg.Beam.ToOracle(),
	}
}

// Compute runs the engine with the configured category and beam bounds.
func (r *Runtime) Compute(ctx context.Context, x *mask.Tensor) (*mask.Mask, error) {
	return r.Engine.Compute(ctx, x, r.Category, r.Beam)
}
