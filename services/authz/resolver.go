package authz

import (
	"context"

	"github.com/fieldaid/backend/models"
	"go.uber.org/zap"
)

// PermissionStore is the source of truth for the role/permission matrix.
// Injected so tests can substitute an in-memory fake for the database.
type PermissionStore interface {
	// GetRule returns the rule for a (role, resource_kind) pair, or
	// (nil, nil) when no rule exists.
	GetRule(ctx context.Context, role models.Role, kind models.ResourceKind) (*models.PermissionRule, error)
}

// DecisionSource records where a decision came from.
type DecisionSource string

const (
	SourceStore    DecisionSource = "store"
	SourceFallback DecisionSource = "fallback"
	// SourceBuiltin marks the super_admin bypass, which consults neither
	// the store nor the fallback matrix.
	SourceBuiltin DecisionSource = "builtin"
)

// DenyReason distinguishes why a decision denied. Operators use this to
// tell misconfiguration from intended restriction; callers surface all
// deny reasons identically.
type DenyReason string

const (
	ReasonNone             DenyReason = ""
	ReasonNotConfigured    DenyReason = "not_configured"
	ReasonExplicitlyDenied DenyReason = "explicitly_denied"
	ReasonNotOwner         DenyReason = "not_owner"
)

// Decision is the outcome of a permission check.
type Decision struct {
	Allowed bool
	Source  DecisionSource
	Reason  DenyReason
}

// Resolver answers base permission questions against the store, falling
// back to a hard-coded default matrix when the store is unreachable or has
// no row for the pair.
type Resolver struct {
	store  PermissionStore
	logger *zap.Logger
}

// NewResolver creates a new Resolver
func NewResolver(store PermissionStore, logger *zap.Logger) *Resolver {
	return &Resolver{
		store:  store,
		logger: logger,
	}
}

// Resolve returns the allow/deny decision for (role, kind, action).
//
// The highest role is unconditionally trusted and bypasses the store.
// A store failure is recovered locally via the fallback matrix and never
// surfaced as an authorization failure; a pair with neither a store row
// nor a fallback entry denies every action.
func (r *Resolver) Resolve(ctx context.Context, role models.Role, kind models.ResourceKind, action models.Action) Decision {
	if role == models.RoleSuperAdmin {
		return Decision{Allowed: true, Source: SourceBuiltin}
	}

	rule, err := r.store.GetRule(ctx, role, kind)
	if err != nil {
		r.logger.Warn("permission store unreachable, using fallback defaults",
			zap.String("role", string(role)),
			zap.String("resource_kind", string(kind)),
			zap.Error(err))
		return r.resolveFallback(role, kind, action)
	}

	if rule == nil {
		// Missing row means "use fallback default", not "deny".
		return r.resolveFallback(role, kind, action)
	}

	if rule.Allows(action) {
		return Decision{Allowed: true, Source: SourceStore}
	}
	return Decision{Allowed: false, Source: SourceStore, Reason: ReasonExplicitlyDenied}
}

// resolveFallback consults the hard-coded default matrix.
func (r *Resolver) resolveFallback(role models.Role, kind models.ResourceKind, action models.Action) Decision {
	caps, ok := fallbackMatrix[role][kind]
	if !ok {
		r.logger.Warn("no permission rule and no fallback entry, denying",
			zap.String("role", string(role)),
			zap.String("resource_kind", string(kind)),
			zap.String("action", string(action)))
		return Decision{Allowed: false, Source: SourceFallback, Reason: ReasonNotConfigured}
	}

	if caps.allows(action) {
		return Decision{Allowed: true, Source: SourceFallback}
	}
	return Decision{Allowed: false, Source: SourceFallback, Reason: ReasonExplicitlyDenied}
}
