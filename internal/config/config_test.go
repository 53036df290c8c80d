package config_test

import (
	"testing"

	"project-launchpad/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults_WithoutConfigFile", func(t *testing.T) {
		t.Setenv("ENV", "unit-test-missing")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "unit-test-missing", cfg.Env)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "9090", cfg.Grpc.Port)
		assert.Equal(t, 5, cfg.Database.QueryTimeout)
		assert.Equal(t, "memory", cfg.Cache.Driver)
		assert.Equal(t, "none", cfg.Events.Driver)
		assert.Equal(t, 2000, cfg.Events.PublishTimeoutMS)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Empty(t, cfg.Log.Format)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("ENV", "unit-test-missing")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_USER", "launchpad")
		t.Setenv("PORT", "9999")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "text")

		cfg, err := config.Load()
		require.NoError(t, err)

		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "launchpad", cfg.Database.User)
		assert.Equal(t, "9999", cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
	})
}
