package permissions

import (
	"context"
	"testing"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/services"
	"github.com/fieldaid/backend/services/audit"
	"github.com/fieldaid/backend/services/authz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPermissionRepository is a mock implementation of PermissionRepository
type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) GetRule(ctx context.Context, role models.Role, kind models.ResourceKind) (*models.PermissionRule, error) {
	args := m.Called(ctx, role, kind)
	if rule := args.Get(0); rule != nil {
		return rule.(*models.PermissionRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPermissionRepository) List(ctx context.Context, role *models.Role) ([]*models.PermissionRule, error) {
	args := m.Called(ctx, role)
	if rules := args.Get(0); rules != nil {
		return rules.([]*models.PermissionRule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPermissionRepository) Upsert(ctx context.Context, rule *models.PermissionRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockPermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo *MockPermissionRepository) *PermissionService {
	logger := zap.NewNop()
	authorizer := authz.NewAuthorizer(authz.NewResolver(repo, logger), logger)
	return NewPermissionService(repo, authorizer, audit.NewAuditService(nil, logger, audit.DefaultConfig()), logger)
}

func TestListRules(t *testing.T) {
	ctx := context.Background()

	t.Run("admin lists via fallback view grant", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		// Authorization lookup has no stored row; the fallback grants
		// admin view on permissions.
		repo.On("GetRule", ctx, models.RoleAdmin, models.KindPermissions).Return(nil, nil)
		repo.On("List", ctx, (*models.Role)(nil)).Return([]*models.PermissionRule{
			models.NewPermissionRule(models.RoleUser, models.KindGrids, ""),
		}, nil)

		rules, err := svc.ListRules(ctx, uuid.New(), models.RoleAdmin, nil)

		require.NoError(t, err)
		assert.Len(t, rules, 1)
	})

	t.Run("user rejected", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		repo.On("GetRule", ctx, models.RoleUser, models.KindPermissions).Return(nil, nil)

		_, err := svc.ListRules(ctx, uuid.New(), models.RoleUser, nil)

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("invalid filter role", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		repo.On("GetRule", ctx, models.RoleAdmin, models.KindPermissions).Return(nil, nil)

		bogus := models.Role("moderator")
		_, err := svc.ListRules(ctx, uuid.New(), models.RoleAdmin, &bogus)

		assert.True(t, services.IsValidationError(err))
	})
}

func TestUpsertRule(t *testing.T) {
	ctx := context.Background()

	validInput := UpsertRuleInput{
		Role:         models.RoleUser,
		ResourceKind: models.KindGrids,
		CanView:      true,
		CanCreate:    true,
	}

	t.Run("admin lacks manage, rejected", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		// Fallback gives admin only view on permissions, not manage.
		repo.On("GetRule", ctx, models.RoleAdmin, models.KindPermissions).Return(nil, nil)

		_, err := svc.UpsertRule(ctx, uuid.New(), models.RoleAdmin, validInput)

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("super admin bypasses and writes", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		repo.On("Upsert", ctx, mock.AnythingOfType("*models.PermissionRule")).Return(nil)

		rule, err := svc.UpsertRule(ctx, uuid.New(), models.RoleSuperAdmin, validInput)

		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, rule.Role)
		assert.True(t, rule.CanView)
		assert.True(t, rule.CanCreate)
		assert.False(t, rule.CanManage)
		repo.AssertExpectations(t)
		// The bypass never reads the store.
		repo.AssertNotCalled(t, "GetRule", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid role in input", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		input := validInput
		input.Role = "moderator"

		_, err := svc.UpsertRule(ctx, uuid.New(), models.RoleSuperAdmin, input)

		assert.True(t, services.IsValidationError(err))
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		_, err := svc.UpsertRule(ctx, uuid.Nil, models.RoleSuperAdmin, validInput)

		assert.True(t, services.IsRejection(err))
	})
}

func TestDeleteRule(t *testing.T) {
	ctx := context.Background()

	t.Run("super admin deletes", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		id := uuid.New()
		repo.On("Delete", ctx, id).Return(nil)

		err := svc.DeleteRule(ctx, uuid.New(), models.RoleSuperAdmin, id)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("grid manager rejected", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		repo.On("GetRule", ctx, models.RoleGridManager, models.KindPermissions).Return(nil, nil)

		err := svc.DeleteRule(ctx, uuid.New(), models.RoleGridManager, uuid.New())

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestSeedDefaults(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds every missing pair", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		repo.On("GetRule", ctx, mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("Upsert", ctx, mock.AnythingOfType("*models.PermissionRule")).Return(nil)

		err := svc.SeedDefaults(ctx)

		require.NoError(t, err)
		repo.AssertNumberOfCalls(t, "Upsert", len(authz.DefaultRules()))
	})

	t.Run("existing rows are left alone", func(t *testing.T) {
		repo := new(MockPermissionRepository)
		svc := newTestService(repo)

		// Every pair already has a row; nothing is written.
		repo.On("GetRule", ctx, mock.Anything, mock.Anything).
			Return(models.NewPermissionRule(models.RoleUser, models.KindGrids, ""), nil)

		err := svc.SeedDefaults(ctx)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
