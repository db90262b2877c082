package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithDefaults(t *testing.T) {
	cfg := Config{URL: "postgres://u:p@localhost:5432/phonerisk"}.withDefaults()

	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)

	custom := Config{MaxConnLifetime: time.Minute, MaxConnIdleTime: time.Second}.withDefaults()
	assert.Equal(t, time.Minute, custom.MaxConnLifetime)
	assert.Equal(t, time.Second, custom.MaxConnIdleTime)
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), Config{URL: "postgres://%zz"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: parse config")
}

func TestSourceURL(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"migrations", "file://migrations"},
		{"/srv/phonerisk/migrations", "file:///srv/phonerisk/migrations"},
		{"file://./migrations", "file://./migrations"},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			assert.Equal(t, tt.want, SourceURL(tt.dir))
		})
	}
}
