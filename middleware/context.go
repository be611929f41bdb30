package middleware

import (
	"context"

	"github.com/fieldaid/backend/models"
	"github.com/google/uuid"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// ActorKey is the context key for the resolved actor
	ActorKey contextKey = "actor"
)

// Claims represents JWT claims extracted from the token
type Claims struct {
	Sub    string `json:"sub"`  // Identity provider subject
	UserID string `json:"uid"`  // Internal user UUID
	Role   string `json:"role"` // Stored role at token issue time
	Email  string `json:"email"`
	Iss    string `json:"iss"`
	Exp    int64  `json:"exp"`
	Iat    int64  `json:"iat"`
}

// Actor is the resolved identity a request acts as. Role is the stored
// role from the verified identity; EffectiveRole is what permission checks
// use, after the acting-role selector has run. Both equal RoleGuest for
// anonymous requests.
type Actor struct {
	ID            uuid.UUID
	Role          models.Role
	EffectiveRole models.Role
	Authenticated bool
}

// AnonymousActor returns the actor every unauthenticated request acts as.
func AnonymousActor() *Actor {
	return &Actor{
		Role:          models.RoleGuest,
		EffectiveRole: models.RoleGuest,
	}
}

// IsSuperAdmin reports whether the actor's effective role is the highest role.
func (a *Actor) IsSuperAdmin() bool {
	return a.EffectiveRole == models.RoleSuperAdmin
}

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetActorFromContext retrieves the actor from context. Requests that never
// passed through the authentication middleware resolve to the anonymous
// actor rather than nil.
func GetActorFromContext(ctx context.Context) *Actor {
	if val := ctx.Value(ActorKey); val != nil {
		if actor, ok := val.(*Actor); ok {
			return actor
		}
	}
	return AnonymousActor()
}

// WithActor adds an actor to the context
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}
