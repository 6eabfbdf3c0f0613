package session

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-api/pkg/redis"
)

func TestRedisSessionGateway(t *testing.T) {
	t.Parallel()

	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)
	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, server.Set("session:good-token", "owner-1"))
	server.SetTTL("session:good-token", time.Hour)
	require.NoError(t, server.Set("session:expiring", "owner-2"))
	server.SetTTL("session:expiring", time.Minute)

	gateway := NewRedisSessionGateway(client, "session:")
	ctx := context.Background()

	for name, tc := range map[string]struct {
		token string
		want  string
	}{
		"known token":   {token: "good-token", want: "owner-1"},
		"unknown token": {token: "nope", want: ""},
		"blank token":   {token: "  ", want: ""},
	} {
		t.Run(name, func(t *testing.T) {
			ownerID, err := gateway.ResolveOwner(ctx, tc.token)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ownerID)
		})
	}

	t.Run("expired token", func(t *testing.T) {
		server.FastForward(2 * time.Minute)
		ownerID, err := gateway.ResolveOwner(ctx, "expiring")
		require.NoError(t, err)
		assert.Empty(t, ownerID)
	})
}
