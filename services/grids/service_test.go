package grids

import (
	"context"
	"testing"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/repositories"
	"github.com/fieldaid/backend/services"
	"github.com/fieldaid/backend/services/audit"
	"github.com/fieldaid/backend/services/authz"
	"github.com/fieldaid/backend/services/privacy"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockGridRepository is a mock implementation of GridRepository
type MockGridRepository struct {
	mock.Mock
}

func (m *MockGridRepository) Create(ctx context.Context, grid *models.Grid) error {
	args := m.Called(ctx, grid)
	return args.Error(0)
}

func (m *MockGridRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Grid, error) {
	args := m.Called(ctx, id)
	if grid := args.Get(0); grid != nil {
		return grid.(*models.Grid), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGridRepository) List(ctx context.Context, limit, offset int) ([]*models.Grid, error) {
	args := m.Called(ctx, limit, offset)
	if grids := args.Get(0); grids != nil {
		return grids.([]*models.Grid), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGridRepository) ListByStatus(ctx context.Context, status models.GridStatus, limit, offset int) ([]*models.Grid, error) {
	args := m.Called(ctx, status, limit, offset)
	if grids := args.Get(0); grids != nil {
		return grids.([]*models.Grid), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGridRepository) Update(ctx context.Context, grid *models.Grid) error {
	args := m.Called(ctx, grid)
	return args.Error(0)
}

func (m *MockGridRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGridRepository) CountDependents(ctx context.Context, gridID uuid.UUID) (map[models.ResourceKind]int, error) {
	args := m.Called(ctx, gridID)
	if counts := args.Get(0); counts != nil {
		return counts.(map[models.ResourceKind]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGridRepository) CascadeDelete(ctx context.Context, gridID uuid.UUID) error {
	args := m.Called(ctx, gridID)
	return args.Error(0)
}

// stubTxManager runs the function inline without a real transaction.
type stubTxManager struct{}

func (stubTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return nil, nil
}

func (stubTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	return fn(ctx, nil)
}

// emptyStore has no stored rules at all, so every decision comes from the
// fallback defaults.
type emptyStore struct{}

func (emptyStore) GetRule(ctx context.Context, role models.Role, kind models.ResourceKind) (*models.PermissionRule, error) {
	return nil, nil
}

// configuredStore mirrors a deployment where the operator has written the
// owner-scoped edit/delete rule for signed-in roles; everything else still
// resolves through the fallback defaults.
type configuredStore struct{}

func (configuredStore) GetRule(ctx context.Context, role models.Role, kind models.ResourceKind) (*models.PermissionRule, error) {
	if kind == models.KindMyResources && role != models.RoleGuest {
		return &models.PermissionRule{
			Role:         role,
			ResourceKind: kind,
			CanEdit:      true,
			CanDelete:    true,
		}, nil
	}
	return nil, nil
}

func newTestService(repo repositories.GridRepository) *GridService {
	return newTestServiceWithStore(repo, configuredStore{})
}

func newTestServiceWithStore(repo repositories.GridRepository, store authz.PermissionStore) *GridService {
	logger := zap.NewNop()
	resolver := authz.NewResolver(store, logger)
	return NewGridService(
		repo,
		stubTxManager{},
		authz.NewAuthorizer(resolver, logger),
		privacy.NewFilter(logger),
		audit.NewAuditService(nil, logger, audit.DefaultConfig()),
		logger,
	)
}

func validCreateInput() CreateGridInput {
	return CreateGridInput{
		Code:            "A3",
		Name:            "Guangfu Station East",
		GridType:        models.GridTypeManpower,
		CenterLat:       23.65,
		CenterLng:       121.42,
		VolunteerNeeded: 20,
		ContactName:     "Site Lead",
		ContactPhone:    "03-870-0000",
	}
}

func TestListGrids(t *testing.T) {
	ctx := context.Background()

	t.Run("guest may list grids", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		grids := []*models.Grid{
			models.NewGrid("A1", "North Lot", models.GridTypeMudDisposal, uuid.New()),
		}
		repo.On("List", ctx, 50, 0).Return(grids, nil)

		got, err := svc.ListGrids(ctx, uuid.Nil, models.RoleGuest, 50, 0)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "A1", got[0].Code)
	})

	t.Run("grid contact survives redaction for guests", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		grid := models.NewGrid("A1", "North Lot", models.GridTypeMudDisposal, uuid.New())
		grid.ContactPhone = "03-870-0000"
		repo.On("List", ctx, 50, 0).Return([]*models.Grid{grid}, nil)

		got, err := svc.ListGrids(ctx, uuid.Nil, models.RoleGuest, 50, 0)

		require.NoError(t, err)
		assert.Equal(t, "03-870-0000", got[0].ContactPhone)
	})
}

func TestGetGrid(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, nil)

		_, err := svc.GetGrid(ctx, uuid.Nil, models.RoleGuest, id)

		assert.ErrorIs(t, err, services.ErrGridNotFound)
	})

	t.Run("found", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		grid := models.NewGrid("B2", "Supply Depot", models.GridTypeSupplyStorage, uuid.New())
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)

		got, err := svc.GetGrid(ctx, uuid.Nil, models.RoleGuest, grid.ID)

		require.NoError(t, err)
		assert.Equal(t, grid.ID, got.ID)
	})
}

func TestCreateGrid(t *testing.T) {
	ctx := context.Background()

	t.Run("anonymous actor rejected", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		_, err := svc.CreateGrid(ctx, uuid.Nil, models.RoleGuest, validCreateInput())

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("invalid input", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		input := validCreateInput()
		input.Code = ""

		_, err := svc.CreateGrid(ctx, uuid.New(), models.RoleGridManager, input)

		assert.True(t, services.IsValidationError(err))
	})

	t.Run("user without create grant rejected", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		_, err := svc.CreateGrid(ctx, uuid.New(), models.RoleUser, validCreateInput())

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("grid manager creates", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		actorID := uuid.New()
		repo.On("Create", ctx, mock.AnythingOfType("*models.Grid")).Return(nil)

		grid, err := svc.CreateGrid(ctx, actorID, models.RoleGridManager, validCreateInput())

		require.NoError(t, err)
		assert.Equal(t, "A3", grid.Code)
		assert.Equal(t, actorID, grid.CreatedByID)
		assert.Equal(t, models.GridStatusOpen, grid.Status)
		repo.AssertExpectations(t)
	})
}

func TestUpdateGrid(t *testing.T) {
	ctx := context.Background()

	t.Run("owner edits through owner-scoped grant", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		owner := uuid.New()
		grid := models.NewGrid("A3", "Old Name", models.GridTypeManpower, owner)
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)
		repo.On("Update", ctx, grid).Return(nil)

		name := "New Name"
		// The user role has no base edit grant on grids; the stored
		// owner-scoped rule supplies it.
		got, err := svc.UpdateGrid(ctx, owner, models.RoleUser, grid.ID, UpdateGridInput{Name: &name})

		require.NoError(t, err)
		assert.Equal(t, "New Name", got.Name)
		repo.AssertExpectations(t)
	})

	t.Run("owner without stored owner grant rejected", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestServiceWithStore(repo, emptyStore{})

		owner := uuid.New()
		grid := models.NewGrid("A3", "Old Name", models.GridTypeManpower, owner)
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)

		name := "New Name"
		// No my_resources row exists and the base grant denies edit;
		// ownership alone must not open an edit path.
		_, err := svc.UpdateGrid(ctx, owner, models.RoleUser, grid.ID, UpdateGridInput{Name: &name})

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("non-owner user rejected", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		grid := models.NewGrid("A3", "Old Name", models.GridTypeManpower, uuid.New())
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)

		name := "New Name"
		_, err := svc.UpdateGrid(ctx, uuid.New(), models.RoleUser, grid.ID, UpdateGridInput{Name: &name})

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("nil fields leave stored values untouched", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		owner := uuid.New()
		grid := models.NewGrid("A3", "Keep Me", models.GridTypeManpower, owner)
		grid.VolunteerNeeded = 12
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)
		repo.On("Update", ctx, grid).Return(nil)

		status := models.GridStatusClosed
		got, err := svc.UpdateGrid(ctx, owner, models.RoleUser, grid.ID, UpdateGridInput{Status: &status})

		require.NoError(t, err)
		assert.Equal(t, "Keep Me", got.Name)
		assert.Equal(t, 12, got.VolunteerNeeded)
		assert.Equal(t, models.GridStatusClosed, got.Status)
	})
}

func TestDeleteGrid(t *testing.T) {
	ctx := context.Background()

	t.Run("no dependents deletes directly", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		actorID := uuid.New()
		grid := models.NewGrid("A3", "Empty Grid", models.GridTypeManpower, uuid.New())
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)
		repo.On("CountDependents", ctx, grid.ID).Return(map[models.ResourceKind]int{}, nil)
		repo.On("Delete", ctx, grid.ID).Return(nil)

		err := svc.DeleteGrid(ctx, actorID, models.RoleAdmin, grid.ID)

		require.NoError(t, err)
		repo.AssertNotCalled(t, "CascadeDelete", mock.Anything, mock.Anything)
	})

	t.Run("dependents without trash grants conflict", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		owner := uuid.New()
		grid := models.NewGrid("A3", "Busy Grid", models.GridTypeManpower, owner)
		dependents := map[models.ResourceKind]int{
			models.KindVolunteers: 3,
			models.KindDonations:  1,
		}
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)
		repo.On("CountDependents", ctx, grid.ID).Return(dependents, nil)

		// The grid manager owns the grid so the base delete passes via the
		// owner-scoped grant, but the trash grants are missing.
		err := svc.DeleteGrid(ctx, owner, models.RoleGridManager, grid.ID)

		require.Error(t, err)
		assert.True(t, services.IsConflictError(err))
		details := services.GetErrorDetails(err)
		require.NotNil(t, details)
		assert.Equal(t, dependents, details["dependents"])
		repo.AssertNotCalled(t, "CascadeDelete", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin with trash grants cascades", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		grid := models.NewGrid("A3", "Busy Grid", models.GridTypeManpower, uuid.New())
		repo.On("GetByID", ctx, grid.ID).Return(grid, nil)
		repo.On("CountDependents", ctx, grid.ID).Return(map[models.ResourceKind]int{
			models.KindVolunteers: 3,
		}, nil)
		repo.On("CascadeDelete", ctx, grid.ID).Return(nil)

		err := svc.DeleteGrid(ctx, uuid.New(), models.RoleAdmin, grid.ID)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		repo := new(MockGridRepository)
		svc := newTestService(repo)

		err := svc.DeleteGrid(ctx, uuid.Nil, models.RoleGuest, uuid.New())

		assert.True(t, services.IsRejection(err))
	})
}
