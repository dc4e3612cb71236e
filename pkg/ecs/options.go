package ecs

import (
	"github.com/rs/zerolog"
)

// worldOptions holds the configurable parts of a World.
type worldOptions struct {
	registry  *Registry
	ids       IDGenerator
	logger    zerolog.Logger
	iterative bool
}

func newDefaultWorldOptions() worldOptions {
	return worldOptions{
		registry:  nil, // A fresh registry per world
		ids:       nil, // Sequential IDs
		logger:    zerolog.Nop(),
		iterative: false,
	}
}

// WorldOption configures a World.
type WorldOption func(*worldOptions)

// WithRegistry shares a component registry between worlds, for example so that a snapshot taken
// from one world decodes into another with the same component IDs.
func WithRegistry(r *Registry) WorldOption {
	return func(o *worldOptions) { o.registry = r }
}

// WithIDGenerator sets the generator used by CreateEntity.
func WithIDGenerator(ids IDGenerator) WorldOption {
	return func(o *worldOptions) { o.ids = ids }
}

// WithLogger sets the world's logger. The default discards everything.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(o *worldOptions) { o.logger = logger }
}

// WithIterativeRebuild makes every system group reconcile after each system instead of only
// between groups, so later systems in a group see earlier systems' structural changes.
func WithIterativeRebuild(enabled bool) WorldOption {
	return func(o *worldOptions) { o.iterative = enabled }
}
