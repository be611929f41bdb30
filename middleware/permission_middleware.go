package middleware

import (
	"net/http"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/services/authz"
	"github.com/fieldaid/backend/utils"
	"go.uber.org/zap"
)

// PermissionMiddleware guards routes with base permission checks. Ownership
// refinement happens in the service layer where the resource is loaded;
// this gate only filters requests that no grant could ever allow.
type PermissionMiddleware struct {
	resolver *authz.Resolver
	logger   *zap.Logger
}

// NewPermissionMiddleware creates a new PermissionMiddleware
func NewPermissionMiddleware(resolver *authz.Resolver, logger *zap.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		resolver: resolver,
		logger:   logger,
	}
}

// Require returns a middleware enforcing (kind, action) for the request's
// effective role. All rejections produce the same opaque response.
func (m *PermissionMiddleware) Require(kind models.ResourceKind, action models.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			actor := GetActorFromContext(ctx)

			decision := m.resolver.Resolve(ctx, actor.EffectiveRole, kind, action)
			if !decision.Allowed {
				m.logger.Info("request denied at route gate",
					zap.String("request_id", GetRequestIDFromContext(ctx)),
					zap.String("role", string(actor.EffectiveRole)),
					zap.String("resource_kind", string(kind)),
					zap.String("action", string(action)),
					zap.String("source", string(decision.Source)),
					zap.String("reason", string(decision.Reason)))
				_ = utils.WriteForbidden(w, "Access denied")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
