package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenValidator defines the interface for validating JWT tokens
type TokenValidator interface {
	// ValidateToken validates a JWT token and returns claims
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// AuthMiddleware resolves the request's actor from its credentials.
type AuthMiddleware struct {
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(validator TokenValidator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
		logger:    logger,
	}
}

// authTokenCookieName is the cookie name for JWT tokens (Authorization header takes precedence)
const authTokenCookieName = "auth_token"

// ResolveActor attaches an Actor to every request. A missing or invalid
// token resolves to the anonymous guest actor instead of failing the
// request; endpoints that need authentication reject later, through the
// same deny path as a permission failure.
func (m *AuthMiddleware) ResolveActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r.WithContext(WithActor(ctx, AnonymousActor())))
			return
		}

		claims, err := m.validator.ValidateToken(ctx, token)
		if err != nil {
			m.logger.Warn("token validation failed, treating as anonymous",
				zap.String("request_id", requestID),
				zap.Error(err))
			next.ServeHTTP(w, r.WithContext(WithActor(ctx, AnonymousActor())))
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			m.logger.Warn("malformed claims, treating as anonymous",
				zap.String("request_id", requestID),
				zap.String("sub", claims.Sub),
				zap.Error(err))
			next.ServeHTTP(w, r.WithContext(WithActor(ctx, AnonymousActor())))
			return
		}

		m.logger.Debug("actor resolved",
			zap.String("request_id", requestID),
			zap.String("actor_id", actor.ID.String()),
			zap.String("role", string(actor.Role)))

		next.ServeHTTP(w, r.WithContext(WithActor(ctx, actor)))
	})
}

// RequireAuthenticated rejects anonymous requests. The response is the same
// opaque denial the permission layer produces, so callers cannot probe
// which check failed.
func (m *AuthMiddleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actor := GetActorFromContext(ctx)
		if !actor.Authenticated {
			m.logger.Info("anonymous request to authenticated endpoint",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.String("path", r.URL.Path))
			_ = utils.WriteForbidden(w, "Access denied")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func actorFromClaims(claims *Claims) (*Actor, error) {
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, err
	}
	role := models.Role(claims.Role)
	if !role.IsValid() {
		role = models.RoleUser
	}
	return &Actor{
		ID:            id,
		Role:          role,
		EffectiveRole: role,
		Authenticated: true,
	}, nil
}

// extractToken extracts JWT from cookie ("auth_token") or Authorization header ("Bearer TOKEN").
// Authorization header takes precedence when both are present.
func extractToken(r *http.Request) string {
	if token := extractBearerToken(r); token != "" {
		return token
	}
	if cookie, err := r.Cookie(authTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	// Check if it starts with "Bearer "
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
