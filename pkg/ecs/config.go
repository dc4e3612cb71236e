package ecs

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
)

// IDMode selects the entity ID generator.
type IDMode string

const (
	IDModeSequential IDMode = "sequential"
	IDModeUUID       IDMode = "uuid"
)

// WorldConfig holds the environment configuration of a World.
type WorldConfig struct {
	// Whether groups reconcile after every system.
	IterativeRebuild bool `env:"REACTOR_ITERATIVE_REBUILD" envDefault:"false"`

	// Entity ID generator, sequential or uuid.
	EntityIDs IDMode `env:"REACTOR_ENTITY_IDS" envDefault:"sequential"`
}

// LoadWorldConfig loads the world configuration from environment variables.
func LoadWorldConfig() (WorldConfig, error) {
	cfg := WorldConfig{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse world config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate world config")
	}

	return cfg, nil
}

func (cfg *WorldConfig) validate() error {
	switch cfg.EntityIDs {
	case IDModeSequential, IDModeUUID:
		return nil
	default:
		return eris.Errorf("invalid entity id mode %q, must be one of sequential, uuid", cfg.EntityIDs)
	}
}

// Options converts the config to world options. Options passed to NewWorld after these override
// them.
func (cfg WorldConfig) Options() []WorldOption {
	opts := []WorldOption{WithIterativeRebuild(cfg.IterativeRebuild)}
	if cfg.EntityIDs == IDModeUUID {
		opts = append(opts, WithIDGenerator(UUIDs{}))
	}
	return opts
}
