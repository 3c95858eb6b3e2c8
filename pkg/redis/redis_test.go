package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_NewDisabled(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	_, err := cfg.New(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, cfg.Enabled())
}

func TestConfig_NewPingsServer(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	cfg := Config{URL: "redis://" + srv.Addr(), ReadTimeout: 1, WriteTimeout: 1, DialTimeout: 1}

	client, err := cfg.New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := srv.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConfig_NewBadURL(t *testing.T) {
	t.Parallel()

	cfg := Config{URL: "not-a-url"}
	_, err := cfg.New(context.Background())
	assert.Error(t, err)
}
