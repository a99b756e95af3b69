package redisstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"blog/pkg/redisstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Needs a live server, e.g. REDIS_TEST_URL=redis://localhost:6379/15
func TestTokenBlacklist(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	ctx := context.Background()
	client, err := redisstore.Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	bl := redisstore.NewTokenBlacklist(client)
	token := "header.payload." + time.Now().String()

	revoked, err := bl.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, token, time.Minute))
	revoked, err = bl.IsRevoked(ctx, token)
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "expired", -time.Second))
	revoked, err = bl.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestConnectInvalidURL(t *testing.T) {
	_, err := redisstore.Connect(context.Background(), "not a url")
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}
