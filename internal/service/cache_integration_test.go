package service

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// setupRedisContainer starts a throwaway Redis for cache round-trip tests.
func setupRedisContainer(t *testing.T) *redis.Client {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisParseCacheRoundTrip(t *testing.T) {
	client := setupRedisContainer(t)
	cache := NewRedisParseCache(client)
	ctx := context.Background()

	_, err := cache.Get(ctx, "https://example.com/cookies")
	assert.ErrorIs(t, err, ErrCacheMiss)

	servings := 12.0
	entry := &CachedParse{
		Recipe: types.ParsedRecipe{
			Name:     "Classic Chocolate Chip Cookies",
			Servings: &servings,
			Ingredients: []types.Ingredient{
				{Index: 0, Name: "flour"},
				{Index: 1, Name: "chocolate chips"},
			},
			Instructions: []types.Instruction{
				{Index: 0, Instruction: "Mix"},
				{Index: 1, Instruction: "Bake"},
			},
		},
		Confidence: types.ConfidenceMedium,
	}
	require.NoError(t, cache.Put(ctx, "https://example.com/cookies", entry))

	got, err := cache.Get(ctx, "https://example.com/cookies")
	require.NoError(t, err)
	assert.Equal(t, entry.Recipe, got.Recipe)
	assert.Equal(t, types.ConfidenceMedium, got.Confidence)

	// Keys are namespaced so unrelated Redis data cannot collide.
	exists, err := client.Exists(ctx, cacheKeyPrefix+"https://example.com/cookies").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}
