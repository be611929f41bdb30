package announcements

import (
	"context"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/repositories"
	"github.com/fieldaid/backend/services"
	"github.com/fieldaid/backend/services/authz"
	"github.com/fieldaid/backend/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnnouncementService manages coordination notices. Announcements carry no
// contact fields, so no privacy filtering applies.
type AnnouncementService struct {
	announcements repositories.AnnouncementRepository
	authorizer    *authz.Authorizer
	logger        *zap.Logger
}

// NewAnnouncementService creates a new AnnouncementService
func NewAnnouncementService(announcements repositories.AnnouncementRepository, authorizer *authz.Authorizer, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{
		announcements: announcements,
		authorizer:    authorizer,
		logger:        logger,
	}
}

// AnnouncementInput holds the fields for creating or updating an announcement
type AnnouncementInput struct {
	Title  string `json:"title" validate:"required,min=1,max=200"`
	Body   string `json:"body" validate:"required,min=1,max=10000"`
	Pinned bool   `json:"pinned"`
}

// List returns published announcements.
func (s *AnnouncementService) List(ctx context.Context, actorID uuid.UUID, role models.Role, limit, offset int) ([]*models.Announcement, error) {
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindAnnouncements, models.ActionView, nil); !d.Allowed {
		return nil, d.Err()
	}
	list, err := s.announcements.List(ctx, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list announcements", err)
	}
	return list, nil
}

// Create publishes an announcement.
func (s *AnnouncementService) Create(ctx context.Context, actorID uuid.UUID, role models.Role, input AnnouncementInput) (*models.Announcement, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid announcement input", err)
	}
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindAnnouncements, models.ActionCreate, nil); !d.Allowed {
		return nil, d.Err()
	}

	a := models.NewAnnouncement(input.Title, input.Body, actorID)
	a.Pinned = input.Pinned
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, services.WrapInternal("failed to create announcement", err)
	}

	s.logger.Info("announcement published",
		zap.String("announcement_id", a.ID.String()),
		zap.String("actor_id", actorID.String()))
	return a, nil
}

// Update edits an announcement. The author may draw the grant from the
// owner-scoped kind.
func (s *AnnouncementService) Update(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID, input AnnouncementInput) (*models.Announcement, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid announcement input", err)
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindAnnouncements, models.ActionEdit, a); !d.Allowed {
		return nil, d.Err()
	}

	a.Title = input.Title
	a.Body = input.Body
	a.Pinned = input.Pinned
	if err := s.announcements.Update(ctx, a); err != nil {
		return nil, services.WrapInternal("failed to update announcement", err)
	}
	return a, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID) error {
	if actorID == uuid.Nil {
		return services.ErrUnauthenticated
	}

	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindAnnouncements, models.ActionDelete, a); !d.Allowed {
		return d.Err()
	}

	if err := s.announcements.Delete(ctx, id); err != nil {
		return services.WrapInternal("failed to delete announcement", err)
	}
	return nil
}

func (s *AnnouncementService) get(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	a, err := s.announcements.GetByID(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load announcement", err)
	}
	if a == nil {
		return nil, services.ErrAnnouncementNotFound
	}
	return a, nil
}
