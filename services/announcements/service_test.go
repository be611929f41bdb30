package announcements

import (
	"context"
	"testing"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/services"
	"github.com/fieldaid/backend/services/authz"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockAnnouncementRepository is a mock implementation of AnnouncementRepository
type MockAnnouncementRepository struct {
	mock.Mock
}

func (m *MockAnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*models.Announcement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnnouncementRepository) List(ctx context.Context, limit, offset int) ([]*models.Announcement, error) {
	args := m.Called(ctx, limit, offset)
	if list := args.Get(0); list != nil {
		return list.([]*models.Announcement), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubStore carries the stored owner-scoped edit/delete rule for signed-in
// roles; every other decision resolves through the fallback defaults.
type stubStore struct{}

func (stubStore) GetRule(ctx context.Context, role models.Role, kind models.ResourceKind) (*models.PermissionRule, error) {
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

func newTestService(repo *MockAnnouncementRepository) *AnnouncementService {
	logger := zap.NewNop()
	authorizer := authz.NewAuthorizer(authz.NewResolver(stubStore{}, logger), logger)
	return NewAnnouncementService(repo, authorizer, logger)
}

func validInput() AnnouncementInput {
	return AnnouncementInput{
		Title: "Shelter opening at the community center",
		Body:  "Doors open at 18:00. Bring ID if you have one.",
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("guests may read announcements", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		repo.On("List", ctx, 20, 0).Return([]*models.Announcement{
			models.NewAnnouncement("Road closure", "Bridge st. closed", uuid.New()),
		}, nil)

		list, err := svc.List(ctx, uuid.Nil, models.RoleGuest, 20, 0)

		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("grid manager publishes", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)
		actor := uuid.New()

		repo.On("Create", ctx, mock.AnythingOfType("*models.Announcement")).Return(nil)

		input := validInput()
		input.Pinned = true
		a, err := svc.Create(ctx, actor, models.RoleGridManager, input)

		require.NoError(t, err)
		assert.Equal(t, actor, a.CreatedByID)
		assert.True(t, a.Pinned)
	})

	t.Run("plain user cannot publish", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		_, err := svc.Create(ctx, uuid.New(), models.RoleUser, validInput())

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("anonymous rejected", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		_, err := svc.Create(ctx, uuid.Nil, models.RoleGuest, validInput())

		assert.True(t, services.IsRejection(err))
	})

	t.Run("empty title rejected", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		input := validInput()
		input.Title = ""
		_, err := svc.Create(ctx, uuid.New(), models.RoleAdmin, input)

		assert.True(t, services.IsValidationError(err))
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("admin edits any announcement", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		existing := models.NewAnnouncement("Old title", "Old body", uuid.New())
		repo.On("GetByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		input := validInput()
		a, err := svc.Update(ctx, uuid.New(), models.RoleAdmin, existing.ID, input)

		require.NoError(t, err)
		assert.Equal(t, input.Title, a.Title)
	})

	t.Run("author with user role edits own via stored owner grant", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)
		author := uuid.New()

		existing := models.NewAnnouncement("Old title", "Old body", author)
		repo.On("GetByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		_, err := svc.Update(ctx, author, models.RoleUser, existing.ID, validInput())

		require.NoError(t, err)
	})

	t.Run("stranger with user role rejected", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		existing := models.NewAnnouncement("Old title", "Old body", uuid.New())
		repo.On("GetByID", ctx, existing.ID).Return(existing, nil)

		_, err := svc.Update(ctx, uuid.New(), models.RoleUser, existing.ID, validInput())

		assert.True(t, services.IsRejection(err))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("admin deletes", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		existing := models.NewAnnouncement("Stale", "Outdated notice", uuid.New())
		repo.On("GetByID", ctx, existing.ID).Return(existing, nil)
		repo.On("Delete", ctx, existing.ID).Return(nil)

		err := svc.Delete(ctx, uuid.New(), models.RoleAdmin, existing.ID)

		require.NoError(t, err)
	})

	t.Run("missing announcement not found", func(t *testing.T) {
		repo := new(MockAnnouncementRepository)
		svc := newTestService(repo)

		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, nil)

		err := svc.Delete(ctx, uuid.New(), models.RoleAdmin, id)

		assert.ErrorIs(t, err, services.ErrAnnouncementNotFound)
	})
}
