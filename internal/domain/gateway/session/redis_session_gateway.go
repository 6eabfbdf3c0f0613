package session

import (
	"context"
	"fmt"
	"strings"

	"todo-api/pkg/redis"
)

// RedisSessionGateway reads owner ids stored by the identity service under prefix+token.
type RedisSessionGateway struct {
	client *redis.Client
	prefix string
}

var _ SessionGateway = (*RedisSessionGateway)(nil)

func NewRedisSessionGateway(client *redis.Client, prefix string) *RedisSessionGateway {
	return &RedisSessionGateway{client: client, prefix: prefix}
}

func (gateway *RedisSessionGateway) ResolveOwner(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", nil
	}

	ownerID, err := gateway.client.Get(ctx, gateway.prefix+token)
	if err != nil {
		return "", fmt.Errorf("resolve session: %w", err)
	}
	return strings.TrimSpace(ownerID), nil
}
