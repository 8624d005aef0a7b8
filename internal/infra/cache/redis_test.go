package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "articles:en:1", Key("articles", "en", "1"))
	assert.Equal(t, "articles:1", Key("articles", "", "1"))
	assert.Equal(t, "", Key())
}

func TestNoop(t *testing.T) {
	var dest string
	hit, err := Noop{}.Get(context.Background(), "k", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, Noop{}.Set(context.Background(), "k", "v", time.Minute))
	assert.NoError(t, Noop{}.DeletePrefix(context.Background(), "articles:"))
}

func TestRedisCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}()

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	c := NewRedisCache(RedisConfig{Addr: addr})
	defer c.Close()

	type page struct {
		Title string `json:"title"`
		Count int    `json:"count"`
	}

	var got page
	hit, err := c.Get(ctx, "home:en", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "home:en", page{Title: "Latest", Count: 3}, time.Minute))
	hit, err = c.Get(ctx, "home:en", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, page{Title: "Latest", Count: 3}, got)

	require.NoError(t, c.Set(ctx, "home:es", page{Title: "Últimas"}, time.Minute))
	require.NoError(t, c.DeletePrefix(ctx, "home:"))
	hit, err = c.Get(ctx, "home:es", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
