package middleware

import (
	"net/http"

	"github.com/fieldaid/backend/models"
	"go.uber.org/zap"
)

// ActingRoleHeader carries an optional request to act under a lower role
// for the duration of one request.
const ActingRoleHeader = "X-Acting-Role"

// actingRoleAllowList maps an actual role to the roles it may downgrade to.
// Only downgrades to the base authenticated role are supported; the list is
// the single place to extend if other downgrades are ever wanted.
var actingRoleAllowList = map[models.Role][]models.Role{
	models.RoleUser:        {models.RoleUser},
	models.RoleGridManager: {models.RoleUser},
	models.RoleAdmin:       {models.RoleUser},
	models.RoleSuperAdmin:  {models.RoleUser},
}

// ActingRoleMiddleware fixes each request's effective role.
type ActingRoleMiddleware struct {
	logger *zap.Logger
}

// NewActingRoleMiddleware creates a new ActingRoleMiddleware
func NewActingRoleMiddleware(logger *zap.Logger) *ActingRoleMiddleware {
	return &ActingRoleMiddleware{logger: logger}
}

// SelectActingRole computes the effective role exactly once per request,
// after the actor has been resolved. Every permission check downstream
// reads the stored effective role; nothing re-reads the header.
func (m *ActingRoleMiddleware) SelectActingRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		actor := GetActorFromContext(ctx)

		signal := r.Header.Get(ActingRoleHeader)
		effective := EffectiveRole(actor, signal)
		if effective != actor.Role {
			m.logger.Debug("acting role downgrade applied",
				zap.String("request_id", GetRequestIDFromContext(ctx)),
				zap.String("actual_role", string(actor.Role)),
				zap.String("acting_role", string(effective)))
		}

		downgraded := *actor
		downgraded.EffectiveRole = effective
		next.ServeHTTP(w, r.WithContext(WithActor(ctx, &downgraded)))
	})
}

// EffectiveRole applies the downgrade rules to a role signal. Unknown,
// invalid, or escalating signals are ignored silently: the actual role
// stands and no error is surfaced. Anonymous actors cannot downgrade.
func EffectiveRole(actor *Actor, signal string) models.Role {
	if signal == "" || !actor.Authenticated {
		return actor.Role
	}
	requested := models.Role(signal)
	if !requested.IsValid() || requested == actor.Role {
		return actor.Role
	}
	for _, allowed := range actingRoleAllowList[actor.Role] {
		if requested == allowed && requested.AtMost(actor.Role) {
			return requested
		}
	}
	return actor.Role
}
