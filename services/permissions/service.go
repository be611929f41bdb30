package permissions

import (
	"context"
	"errors"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/repositories"
	"github.com/fieldaid/backend/services"
	"github.com/fieldaid/backend/services/audit"
	"github.com/fieldaid/backend/services/authz"
	"github.com/fieldaid/backend/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissionService manages the role/permission matrix itself. Writes take
// effect on the next permission check; there is no cache to invalidate.
type PermissionService struct {
	rules      repositories.PermissionRepository
	authorizer *authz.Authorizer
	audit      *audit.AuditService
	logger     *zap.Logger
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(rules repositories.PermissionRepository, authorizer *authz.Authorizer, auditSvc *audit.AuditService, logger *zap.Logger) *PermissionService {
	return &PermissionService{
		rules:      rules,
		authorizer: authorizer,
		audit:      auditSvc,
		logger:     logger,
	}
}

// UpsertRuleInput holds the fields for creating or replacing a rule
type UpsertRuleInput struct {
	Role         models.Role         `json:"role" validate:"required"`
	ResourceKind models.ResourceKind `json:"resource_kind" validate:"required,min=1,max=100"`
	CanView      bool                `json:"can_view"`
	CanCreate    bool                `json:"can_create"`
	CanEdit      bool                `json:"can_edit"`
	CanDelete    bool                `json:"can_delete"`
	CanManage    bool                `json:"can_manage"`
	Description  string              `json:"description" validate:"max=500"`
}

// ListRules returns the stored matrix, optionally filtered by role.
func (s *PermissionService) ListRules(ctx context.Context, actorID uuid.UUID, role models.Role, filterRole *models.Role) ([]*models.PermissionRule, error) {
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindPermissions, models.ActionView, nil); !d.Allowed {
		return nil, d.Err()
	}
	if filterRole != nil && !filterRole.IsValid() {
		return nil, services.ErrInvalidRole
	}
	rules, err := s.rules.List(ctx, filterRole)
	if err != nil {
		return nil, services.WrapInternal("failed to list permission rules", err)
	}
	return rules, nil
}

// UpsertRule creates or replaces the rule for a (role, resource_kind) pair.
func (s *PermissionService) UpsertRule(ctx context.Context, actorID uuid.UUID, role models.Role, input UpsertRuleInput) (*models.PermissionRule, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid rule input", err)
	}
	if !input.Role.IsValid() {
		return nil, services.ErrInvalidRole
	}

	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindPermissions, models.ActionManage, nil); !d.Allowed {
		return nil, d.Err()
	}

	rule := models.NewPermissionRule(input.Role, input.ResourceKind, input.Description)
	rule.CanView = input.CanView
	rule.CanCreate = input.CanCreate
	rule.CanEdit = input.CanEdit
	rule.CanDelete = input.CanDelete
	rule.CanManage = input.CanManage

	if err := s.rules.Upsert(ctx, rule); err != nil {
		if errors.Is(err, services.ErrDuplicateRule) {
			return nil, err
		}
		return nil, services.WrapInternal("failed to upsert permission rule", err)
	}

	s.logger.Info("permission rule upserted",
		zap.String("role", string(input.Role)),
		zap.String("resource_kind", string(input.ResourceKind)),
		zap.String("actor_id", actorID.String()))
	s.audit.LogMutation(models.NewAuditLog(models.AuditActionRuleUpserted, input.ResourceKind).
		WithActor(actorID, role).
		WithResource(rule.ID).
		WithDetails(rule))

	return rule, nil
}

// DeleteRule removes a rule. Subsequent checks for the pair fall back to
// the built-in defaults.
func (s *PermissionService) DeleteRule(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID) error {
	if actorID == uuid.Nil {
		return services.ErrUnauthenticated
	}
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindPermissions, models.ActionManage, nil); !d.Allowed {
		return d.Err()
	}

	if err := s.rules.Delete(ctx, id); err != nil {
		return services.WrapInternal("failed to delete permission rule", err)
	}

	s.audit.LogMutation(models.NewAuditLog(models.AuditActionRuleDeleted, models.KindPermissions).
		WithActor(actorID, role).
		WithResource(id))
	return nil
}

// SeedDefaults writes the built-in default matrix into the store, skipping
// pairs that already have a row. Run once at deployment so the store and
// the fallback agree from day one.
func (s *PermissionService) SeedDefaults(ctx context.Context) error {
	for _, rule := range authz.DefaultRules() {
		existing, err := s.rules.GetRule(ctx, rule.Role, rule.ResourceKind)
		if err != nil {
			return services.WrapInternal("failed to check existing rule", err)
		}
		if existing != nil {
			continue
		}
		seeded := models.NewPermissionRule(rule.Role, rule.ResourceKind, "seeded default")
		seeded.CanView = rule.CanView
		seeded.CanCreate = rule.CanCreate
		seeded.CanEdit = rule.CanEdit
		seeded.CanDelete = rule.CanDelete
		seeded.CanManage = rule.CanManage
		if err := s.rules.Upsert(ctx, seeded); err != nil {
			return services.WrapInternal("failed to seed permission rule", err)
		}
	}
	s.logger.Info("permission matrix seeded")
	return nil
}
