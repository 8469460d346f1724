package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "redis://:hunter2@cache.internal:6380/3"
	cfg.PoolSize = 25
	cfg.DialTimeout = 2 * time.Second

	opts, err := cfg.Options()
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "hunter2", opts.Password)
	assert.Equal(t, 3, opts.DB)
	assert.Equal(t, 25, opts.PoolSize)
	assert.Equal(t, 2, opts.MinIdleConns)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)
}

func TestConfigOptionsRejectsBadURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URL = "http://localhost:6379"
	_, err := cfg.Options()
	assert.Error(t, err)
}
