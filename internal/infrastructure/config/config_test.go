package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonerisk/phonerisk/internal/infrastructure/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8090", cfg.GRPCAddress())
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.Equal(t, config.StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, 24*time.Hour, cfg.FreshnessWindow)
	assert.False(t, cfg.ParallelFetch)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "phonerisk.analysis.requested", cfg.Kafka.RequestsTopic)
	assert.False(t, cfg.TLSEnabled())
	assert.Equal(t, config.ModeLive, cfg.Providers.IPQS.EffectiveMode())
	assert.Equal(t, config.DefaultProviderTimeout, cfg.Providers.Numverify.EffectiveTimeout())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "badger")
	t.Setenv("BADGER_DIR", "/tmp/phonerisk")
	t.Setenv("ANALYSIS_FRESHNESS_WINDOW", "2h")
	t.Setenv("ANALYSIS_PARALLEL_FETCH", "true")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("IPQS_API_KEY", "ipqs-secret")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.StorageBadger, cfg.StorageDriver)
	assert.Equal(t, "/tmp/phonerisk", cfg.BadgerDir)
	assert.Equal(t, 2*time.Hour, cfg.FreshnessWindow)
	assert.True(t, cfg.ParallelFetch)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "ipqs-secret", cfg.Providers.IPQS.APIKey)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("ANALYSIS_FRESHNESS_WINDOW", "a day")
		_, err := config.Load()
		assert.ErrorContains(t, err, "ANALYSIS_FRESHNESS_WINDOW")
	})

	t.Run("unknown storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		_, err := config.Load()
		assert.ErrorContains(t, err, "invalid configuration")
	})

	t.Run("cert without key", func(t *testing.T) {
		t.Setenv("TLS_CERT_FILE", "server.pem")
		_, err := config.Load()
		assert.Error(t, err)
	})
}

func TestLoad_ProvidersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ipqs:
  mode: live
  api_key: from-file
  timeout: 5s
numverify:
  mode: stub
social:
  mode: disabled
`), 0o600))

	t.Setenv("PROVIDERS_FILE", path)
	t.Setenv("NUMVERIFY_API_KEY", "nv-env")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Providers.IPQS.APIKey)
	assert.Equal(t, 5*time.Second, cfg.Providers.IPQS.EffectiveTimeout())
	assert.Equal(t, config.ModeStub, cfg.Providers.Numverify.Mode)
	assert.Equal(t, "nv-env", cfg.Providers.Numverify.APIKey)
	assert.Equal(t, config.ModeDisabled, cfg.Providers.Social.Mode)
	assert.Equal(t, config.ModeLive, cfg.Providers.Telegram.Mode, "missing sections keep defaults")
}

func TestParseProviders_Invalid(t *testing.T) {
	_, err := config.ParseProviders([]byte("ipqs:\n  mode: sometimes\n"))
	assert.ErrorContains(t, err, "invalid providers file")

	_, err = config.ParseProviders([]byte("ipqs:\n  base_url: not a url\n"))
	assert.Error(t, err)

	_, err = config.ParseProviders([]byte("ipqs: [unbalanced"))
	assert.ErrorContains(t, err, "parse providers yaml")
}
