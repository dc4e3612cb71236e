package snapshot

import (
	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
)

// config holds the snapshot configuration read from the environment.
type config struct {
	// Snapshot storage backend, NOP, REDIS or JETSTREAM.
	StorageType string `env:"REACTOR_SNAPSHOT_STORAGE" envDefault:"NOP"`
}

func loadConfig() (config, error) {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse snapshot config")
	}
	if _, err := ParseStorageType(cfg.StorageType); err != nil {
		return cfg, eris.Wrap(err, "failed to validate snapshot config")
	}
	return cfg, nil
}
