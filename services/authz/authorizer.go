package authz

import (
	"context"
	"fmt"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/services"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authorizer layers ownership on top of base permission resolution.
// Ownership never substitutes for permission: an owner still needs a
// grant, but may draw it from the owner-scoped kind instead of the base
// kind.
type Authorizer struct {
	resolver *Resolver
	logger   *zap.Logger
}

// NewAuthorizer creates a new Authorizer
func NewAuthorizer(resolver *Resolver, logger *zap.Logger) *Authorizer {
	return &Authorizer{
		resolver: resolver,
		logger:   logger,
	}
}

// Resolver exposes the underlying base resolver for callers that need raw
// pair decisions (facet checks, route guards).
func (a *Authorizer) Resolver() *Resolver {
	return a.resolver
}

// Authorize decides whether an actor may perform an action on a resource.
// resource may be nil for actions that do not target a loaded resource
// (create, list); ownership only influences mutating actions on a loaded
// resource.
func (a *Authorizer) Authorize(ctx context.Context, actorID uuid.UUID, role models.Role, kind models.ResourceKind, action models.Action, resource models.Ownable) Decision {
	if role == models.RoleSuperAdmin {
		return Decision{Allowed: true, Source: SourceBuiltin}
	}

	base := a.resolver.Resolve(ctx, role, kind, action)

	if !action.IsMutating() || resource == nil {
		return base
	}

	if ownedBy(resource, actorID) {
		owned := a.resolver.Resolve(ctx, role, models.KindMyResources, action)
		if owned.Allowed {
			return owned
		}
		// Owner without an owner-scoped grant stands on the base grant alone.
		return base
	}

	if base.Allowed {
		return base
	}
	return Decision{Allowed: false, Source: base.Source, Reason: ReasonNotOwner}
}

// Err translates a deny decision into the service error the transport layer
// maps to a response. Allowed decisions return nil.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	if d.Reason == ReasonNotConfigured {
		return services.ErrUnconfigured
	}
	return services.ErrDenied
}

// AuthorizeCascadeDelete gates a permanent delete that would destroy
// dependent records. Every dependent kind with surviving records requires
// the matching trash-kind delete grant; a single missing grant blocks the
// whole delete. The conflict error carries the dependent counts so the
// caller can surface them.
func (a *Authorizer) AuthorizeCascadeDelete(ctx context.Context, role models.Role, dependents map[models.ResourceKind]int) error {
	if role == models.RoleSuperAdmin {
		return nil
	}

	for kind, count := range dependents {
		if count == 0 {
			continue
		}
		trash := models.TrashKindFor(kind)
		if trash == "" {
			return services.NewDomainError(
				services.ErrorTypeConflict,
				fmt.Sprintf("cannot delete: %d dependent %s records have no removal path", count, kind),
				nil,
			).WithDetail("dependents", dependents)
		}
		d := a.resolver.Resolve(ctx, role, trash, models.ActionDelete)
		if !d.Allowed {
			a.logger.Info("cascade delete blocked",
				zap.String("role", string(role)),
				zap.String("dependent_kind", string(kind)),
				zap.Int("count", count))
			return services.NewDomainError(
				services.ErrorTypeConflict,
				fmt.Sprintf("cannot delete: %d dependent %s records require permanent removal permission", count, kind),
				nil,
			).WithDetail("dependents", dependents)
		}
	}
	return nil
}

func ownedBy(resource models.Ownable, actorID uuid.UUID) bool {
	if actorID == uuid.Nil {
		return false
	}
	for _, id := range resource.OwnerIDs() {
		if id == actorID {
			return true
		}
	}
	return false
}
