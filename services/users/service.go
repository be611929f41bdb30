package users

import (
	"context"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/repositories"
	"github.com/fieldaid/backend/services"
	"github.com/fieldaid/backend/services/audit"
	"github.com/fieldaid/backend/services/authz"
	"github.com/fieldaid/backend/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService manages user accounts and role assignment. Role changes take
// effect on the target's next issued token and every permission check after
// the write; nothing is cached.
type UserService struct {
	users      repositories.UserRepository
	authorizer *authz.Authorizer
	audit      *audit.AuditService
	logger     *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, authorizer *authz.Authorizer, auditSvc *audit.AuditService, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		authorizer: authorizer,
		audit:      auditSvc,
		logger:     logger,
	}
}

// UpdateUserInput holds the mutable user fields
type UpdateUserInput struct {
	DisplayName *string      `json:"display_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone       *string      `json:"phone,omitempty" validate:"omitempty,max=30"`
	Role        *models.Role `json:"role,omitempty"`
}

// ListUsers returns user accounts for the admin console.
func (s *UserService) ListUsers(ctx context.Context, actorID uuid.UUID, role models.Role, limit, offset int) ([]*models.User, error) {
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindUsers, models.ActionView, nil); !d.Allowed {
		return nil, d.Err()
	}
	users, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list users", err)
	}
	return users, nil
}

// GetUser returns one user account.
func (s *UserService) GetUser(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID) (*models.User, error) {
	// Actors may always read their own account.
	if actorID != id {
		if d := s.authorizer.Authorize(ctx, actorID, role, models.KindUsers, models.ActionView, nil); !d.Allowed {
			return nil, d.Err()
		}
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load user", err)
	}
	if user == nil {
		return nil, services.ErrUserNotFound
	}
	return user, nil
}

// UpdateUser updates a user account. Changing a role requires the users
// edit grant; only the highest role may grant or revoke the highest role.
func (s *UserService) UpdateUser(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid user input", err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load user", err)
	}
	if user == nil {
		return nil, services.ErrUserNotFound
	}

	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindUsers, models.ActionEdit, nil); !d.Allowed {
		return nil, d.Err()
	}

	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, services.ErrInvalidRole
		}
		if (*input.Role == models.RoleSuperAdmin || user.Role == models.RoleSuperAdmin) && role != models.RoleSuperAdmin {
			return nil, services.ErrDenied
		}
		user.Role = *input.Role
	}
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, services.WrapInternal("failed to update user", err)
	}

	s.logger.Info("user updated",
		zap.String("user_id", id.String()),
		zap.String("actor_id", actorID.String()))
	s.audit.LogMutation(models.NewAuditLog(models.AuditActionUserUpdated, models.KindUsers).
		WithActor(actorID, role).
		WithResource(id))

	return user, nil
}
