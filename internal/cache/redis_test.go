package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/smart-wallet/internal/config"
)

type testStruct struct {
	Name string
	Age  int
}

func setupTestCache(t *testing.T) *Cache {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	return cache
}

func TestSetAndGet(t *testing.T) {
	cache := setupTestCache(t)

	expected := testStruct{Name: "Alice", Age: 30}
	err := cache.Set("users:all", expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get("users:all", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache := setupTestCache(t)

	err := cache.Set("users:all", testStruct{Name: "Bob"}, time.Minute)
	require.NoError(t, err)

	err = cache.Invalidate("users:all")
	require.NoError(t, err)

	var out testStruct
	found, err := cache.Get("users:all", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidateMissingKey(t *testing.T) {
	cache := setupTestCache(t)

	// удаление отсутствующего ключа не является ошибкой
	err := cache.Invalidate("no_such_key")
	require.NoError(t, err)
}
