package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWorldConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadWorldConfig()
		require.NoError(t, err)
		assert.False(t, cfg.IterativeRebuild)
		assert.Equal(t, IDModeSequential, cfg.EntityIDs)

		w := NewWorld(cfg.Options()...)
		assert.False(t, w.IterativeRebuild())
		assert.Equal(t, "1", w.CreateEntity().ID().String())
	})

	t.Run("from env", func(t *testing.T) {
		t.Setenv("REACTOR_ITERATIVE_REBUILD", "true")
		t.Setenv("REACTOR_ENTITY_IDS", "uuid")

		cfg, err := LoadWorldConfig()
		require.NoError(t, err)
		w := NewWorld(cfg.Options()...)
		assert.True(t, w.IterativeRebuild())
		_, sequential := w.CreateEntity().ID().sequential()
		assert.False(t, sequential)
	})

	t.Run("later options win", func(t *testing.T) {
		t.Setenv("REACTOR_ITERATIVE_REBUILD", "true")

		cfg, err := LoadWorldConfig()
		require.NoError(t, err)
		w := NewWorld(append(cfg.Options(), WithIterativeRebuild(false))...)
		assert.False(t, w.IterativeRebuild())
	})

	t.Run("invalid", func(t *testing.T) {
		t.Setenv("REACTOR_ENTITY_IDS", "random")
		_, err := LoadWorldConfig()
		require.Error(t, err)

		t.Setenv("REACTOR_ENTITY_IDS", "sequential")
		t.Setenv("REACTOR_ITERATIVE_REBUILD", "maybe")
		_, err = LoadWorldConfig()
		require.Error(t, err)
	})
}
