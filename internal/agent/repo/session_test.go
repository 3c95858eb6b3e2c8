package repo

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/nash-core-poc/server/internal/agent/model"
	errx "github.com/nash-core-poc/server/internal/core/error"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepo(t *testing.T, ttl time.Duration) (*RedisSessionRepository, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisSessionRepository(rdb, ttl), srv
}

func exerciseRepository(t *testing.T, r model.SessionRepository) {
	t.Helper()
	ctx := context.Background()

	rows, err := r.Load(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, r.Append(ctx, "s1", "a", "b", "c"))
	require.NoError(t, r.Append(ctx, "s1"))
	require.NoError(t, r.Append(ctx, "s1", "d"))
	require.NoError(t, r.Append(ctx, "s2", "other"))

	rows, err = r.Load(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, rows)

	rows, err = r.Load(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, rows)

	n, err := r.Len(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	require.NoError(t, r.Clear(ctx, "s1"))
	n, err = r.Len(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, err = r.Load(ctx, "s2", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"other"}, rows)
}

func TestRedisSessionRepository(t *testing.T) {
	t.Parallel()

	r, _ := newRedisRepo(t, time.Hour)
	exerciseRepository(t, r)
}

func TestMemorySessionRepository(t *testing.T) {
	t.Parallel()

	exerciseRepository(t, NewMemorySessionRepository(16, time.Hour))
}

func TestMemorySessionRepository_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewMemorySessionRepository(16, 50*time.Millisecond)
	require.NoError(t, r.Append(ctx, "s", "entry"))

	n, err := r.Len(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Eventually(t, func() bool {
		rows, err := r.Load(ctx, "s", 0)
		return err == nil && len(rows) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestMemorySessionRepository_SizeCap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r := NewMemorySessionRepository(2, 0)
	for _, id := range []string{"s1", "s2", "s3"} {
		require.NoError(t, r.Append(ctx, id, "q-"+id))
	}

	rows, err := r.Load(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Empty(t, rows, "least recently used session is evicted")

	for _, id := range []string{"s2", "s3"} {
		rows, err := r.Load(ctx, id, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"q-" + id}, rows)
	}

	// distinct sessions never grow the store past its cap
	for i := 0; i < 1000; i++ {
		require.NoError(t, r.Append(ctx, fmt.Sprintf("burst-%d", i), "x"))
	}
	assert.Equal(t, 2, r.sessions.Len())
}

func TestRedisSessionRepository_TTL(t *testing.T) {
	t.Parallel()

	r, srv := newRedisRepo(t, time.Minute)
	require.NoError(t, r.Append(context.Background(), "s", "entry"))
	assert.Equal(t, time.Minute, srv.TTL(r.sessionKey("s")))

	srv.FastForward(2 * time.Minute)
	n, err := r.Len(context.Background(), "s")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisSessionRepository_ServerDown(t *testing.T) {
	t.Parallel()

	r, srv := newRedisRepo(t, 0)
	srv.Close()

	err := r.Append(context.Background(), "s", "x")
	require.Error(t, err)
	assert.Equal(t, errx.KindRedis, errx.KindOf(err))
	assert.Equal(t, http.StatusBadGateway, errx.StatusOf(err))
}
