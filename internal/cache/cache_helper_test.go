package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subjectRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func setupTestManager(t *testing.T) (*CacheManager, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheManager(client), mr
}

func TestSetAndGet(t *testing.T) {
	cm, mr := setupTestManager(t)
	ctx := context.Background()

	expected := []subjectRow{{ID: "1", Name: "Mathematics"}}
	require.NoError(t, cm.Subject.Set(ctx, "list:all", expected, time.Minute))
	assert.True(t, mr.Exists(SubjectCacheConfig.Prefix+"list:all"))

	var actual []subjectRow
	require.NoError(t, cm.Subject.Get(ctx, "list:all", &actual))
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cm, _ := setupTestManager(t)

	var out []subjectRow
	err := cm.Subject.Get(context.Background(), "missing", &out)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestNilClientDegrades(t *testing.T) {
	cm := NewCacheManager(nil)
	ctx := context.Background()

	assert.NoError(t, cm.Subject.Set(ctx, "k", "v", time.Minute))
	assert.ErrorIs(t, cm.Subject.Get(ctx, "k", new(string)), ErrCacheNotAvailable)
	assert.ErrorIs(t, cm.HealthCheck(ctx), ErrCacheNotAvailable)

	calls := 0
	var out string
	for range 2 {
		err := cm.Subject.CacheOrExecute(ctx, "k", &out, time.Minute, func() (interface{}, error) {
			calls++
			return "fresh", nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, "fresh", out)
	assert.Equal(t, 2, calls)
}

func TestCacheOrExecute_StoresResult(t *testing.T) {
	cm, mr := setupTestManager(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return []subjectRow{{ID: "1", Name: "Physics"}}, nil
	}

	var first, second []subjectRow
	require.NoError(t, cm.Subject.CacheOrExecute(ctx, "list:all", &first, time.Minute, fetch))
	require.NoError(t, cm.Subject.CacheOrExecute(ctx, "list:all", &second, time.Minute, fetch))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	mr.FastForward(2 * time.Minute)

	require.NoError(t, cm.Subject.CacheOrExecute(ctx, "list:all", &second, time.Minute, fetch))
	assert.Equal(t, 2, calls)
}

func TestCacheOrExecute_FetchError(t *testing.T) {
	cm, mr := setupTestManager(t)
	boom := errors.New("boom")

	var out []subjectRow
	err := cm.Subject.CacheOrExecute(context.Background(), "list:all", &out, time.Minute, func() (interface{}, error) {
		return nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(SubjectCacheConfig.Prefix+"list:all"))
}

func TestInvalidatePattern(t *testing.T) {
	cm, mr := setupTestManager(t)
	ctx := context.Background()

	require.NoError(t, cm.Class.Set(ctx, "list:all", "a", time.Minute))
	require.NoError(t, cm.Class.Set(ctx, "list:teacher:1", "b", time.Minute))
	require.NoError(t, cm.Subject.Set(ctx, "list:all", "c", time.Minute))

	require.NoError(t, cm.Class.InvalidatePattern(ctx, "list:*"))

	assert.False(t, mr.Exists(ClassCacheConfig.Prefix+"list:all"))
	assert.False(t, mr.Exists(ClassCacheConfig.Prefix+"list:teacher:1"))
	assert.True(t, mr.Exists(SubjectCacheConfig.Prefix+"list:all"))
}

func TestClearAll(t *testing.T) {
	cm, mr := setupTestManager(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("unrelated", "keep"))
	require.NoError(t, cm.Class.Set(ctx, "list:all", "a", time.Minute))
	require.NoError(t, cm.Subject.Set(ctx, "list:all", "b", time.Minute))

	require.NoError(t, cm.ClearAll(ctx))

	assert.False(t, mr.Exists(ClassCacheConfig.Prefix+"list:all"))
	assert.False(t, mr.Exists(SubjectCacheConfig.Prefix+"list:all"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestDeleteAndExists(t *testing.T) {
	cm, _ := setupTestManager(t)
	ctx := context.Background()

	require.NoError(t, cm.Subject.Set(ctx, "a", 1, time.Minute))
	ok, err := cm.Subject.Exists(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	Invalidate(ctx, cm.Subject, "a")

	ok, err = cm.Subject.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
