package session

import "context"

// SessionGateway resolves a session token issued by the identity service to the owner it belongs to.
type SessionGateway interface {
	// ResolveOwner returns "" when the token is unknown or expired.
	ResolveOwner(ctx context.Context, token string) (string, error)
}
