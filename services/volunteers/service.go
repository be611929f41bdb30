package volunteers

import (
	"context"
	"time"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/repositories"
	"github.com/fieldaid/backend/services"
	"github.com/fieldaid/backend/services/audit"
	"github.com/fieldaid/backend/services/authz"
	"github.com/fieldaid/backend/services/privacy"
	"github.com/fieldaid/backend/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VolunteerService orchestrates volunteer registration operations. Contact
// fields in every response pass through the privacy filter; the facet
// grant is resolved once per call, never per row.
type VolunteerService struct {
	volunteers repositories.VolunteerRepository
	grids      repositories.GridRepository
	txManager  repositories.TransactionManager
	authorizer *authz.Authorizer
	filter     *privacy.Filter
	audit      *audit.AuditService
	logger     *zap.Logger
}

// NewVolunteerService creates a new VolunteerService
func NewVolunteerService(
	volunteers repositories.VolunteerRepository,
	grids repositories.GridRepository,
	txManager repositories.TransactionManager,
	authorizer *authz.Authorizer,
	filter *privacy.Filter,
	auditSvc *audit.AuditService,
	logger *zap.Logger,
) *VolunteerService {
	return &VolunteerService{
		volunteers: volunteers,
		grids:      grids,
		txManager:  txManager,
		authorizer: authorizer,
		filter:     filter,
		audit:      auditSvc,
		logger:     logger,
	}
}

// CreateRegistrationInput holds the fields for signing up a volunteer
type CreateRegistrationInput struct {
	GridID         uuid.UUID  `json:"grid_id" validate:"required"`
	VolunteerName  string     `json:"volunteer_name" validate:"required,min=1,max=100"`
	VolunteerPhone string     `json:"volunteer_phone" validate:"max=30"`
	VolunteerEmail string     `json:"volunteer_email" validate:"omitempty,email"`
	AvailableFrom  *time.Time `json:"available_from,omitempty"`
	Notes          string     `json:"notes" validate:"max=2000"`
}

// UpdateRegistrationInput holds the fields for updating a registration
type UpdateRegistrationInput struct {
	VolunteerName  *string                    `json:"volunteer_name,omitempty" validate:"omitempty,min=1,max=100"`
	VolunteerPhone *string                    `json:"volunteer_phone,omitempty" validate:"omitempty,max=30"`
	VolunteerEmail *string                    `json:"volunteer_email,omitempty" validate:"omitempty,email"`
	Status         *models.RegistrationStatus `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed arrived cancelled"`
	AvailableFrom  *time.Time                 `json:"available_from,omitempty"`
	Notes          *string                    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ListByGrid returns a grid's registrations with contact fields filtered.
// Grid ownership is resolved once for the whole page.
func (s *VolunteerService) ListByGrid(ctx context.Context, actorID uuid.UUID, role models.Role, gridID uuid.UUID, limit, offset int) ([]*models.VolunteerRegistration, error) {
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindVolunteers, models.ActionView, nil); !d.Allowed {
		s.reportDecision(ctx, actorID, role, models.ActionView, nil, d)
		return nil, d.Err()
	}

	grid, err := s.grids.GetByID(ctx, gridID)
	if err != nil {
		return nil, services.WrapInternal("failed to load grid", err)
	}
	if grid == nil {
		return nil, services.ErrGridNotFound
	}

	regs, err := s.volunteers.ListByGrid(ctx, gridID, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list registrations", err)
	}

	viewer := privacy.ResolveViewer(ctx, s.authorizer.Resolver(), actorID, role)
	ownedGrids := map[uuid.UUID]bool{gridID: ownedBy(grid, actorID)}
	return s.filter.FilterRegistrations(regs, viewer, ownedGrids), nil
}

// ListMine returns the actor's own registrations. Contact fields are the
// actor's own and are always disclosed.
func (s *VolunteerService) ListMine(ctx context.Context, actorID uuid.UUID, role models.Role, limit, offset int) ([]*models.VolunteerRegistration, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}

	regs, err := s.volunteers.ListByCreator(ctx, actorID, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list registrations", err)
	}
	return regs, nil
}

// CreateRegistration signs a volunteer up for a grid.
func (s *VolunteerService) CreateRegistration(ctx context.Context, actorID uuid.UUID, role models.Role, input CreateRegistrationInput) (*models.VolunteerRegistration, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid registration input", err)
	}

	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindVolunteers, models.ActionCreate, nil); !d.Allowed {
		s.reportDecision(ctx, actorID, role, models.ActionCreate, nil, d)
		return nil, d.Err()
	}

	grid, err := s.grids.GetByID(ctx, input.GridID)
	if err != nil {
		return nil, services.WrapInternal("failed to load grid", err)
	}
	if grid == nil {
		return nil, services.ErrGridNotFound
	}

	reg := models.NewVolunteerRegistration(input.GridID, actorID, input.VolunteerName)
	reg.VolunteerPhone = input.VolunteerPhone
	reg.VolunteerEmail = input.VolunteerEmail
	reg.AvailableFrom = input.AvailableFrom
	reg.Notes = input.Notes

	if err := s.volunteers.Create(ctx, reg); err != nil {
		return nil, services.WrapInternal("failed to create registration", err)
	}

	s.logger.Info("volunteer registration created",
		zap.String("registration_id", reg.ID.String()),
		zap.String("grid_id", input.GridID.String()),
		zap.String("actor_id", actorID.String()))
	s.audit.LogMutation(models.NewAuditLog(models.AuditActionRegCreated, models.KindVolunteers).
		WithActor(actorID, role).
		WithResource(reg.ID))

	return reg, nil
}

// UpdateRegistration updates a registration. A creator editing their own
// signup may draw the grant from the owner-scoped kind.
func (s *VolunteerService) UpdateRegistration(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID, input UpdateRegistrationInput) (*models.VolunteerRegistration, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid registration input", err)
	}

	var updated *models.VolunteerRegistration
	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		reg, err := s.getRegistration(txCtx, id)
		if err != nil {
			return err
		}

		if d := s.authorizer.Authorize(txCtx, actorID, role, models.KindVolunteers, models.ActionEdit, reg); !d.Allowed {
			s.reportDecision(txCtx, actorID, role, models.ActionEdit, &id, d)
			return d.Err()
		}

		applyRegistrationUpdate(reg, input)
		if err := s.volunteers.Update(txCtx, reg); err != nil {
			return services.WrapInternal("failed to update registration", err)
		}
		updated = reg
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogMutation(models.NewAuditLog(models.AuditActionRegUpdated, models.KindVolunteers).
		WithActor(actorID, role).
		WithResource(id))
	return updated, nil
}

// DeleteRegistration removes a registration.
func (s *VolunteerService) DeleteRegistration(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID) error {
	if actorID == uuid.Nil {
		return services.ErrUnauthenticated
	}

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		reg, err := s.getRegistration(txCtx, id)
		if err != nil {
			return err
		}

		if d := s.authorizer.Authorize(txCtx, actorID, role, models.KindVolunteers, models.ActionDelete, reg); !d.Allowed {
			s.reportDecision(txCtx, actorID, role, models.ActionDelete, &id, d)
			return d.Err()
		}

		if err := s.volunteers.Delete(txCtx, id); err != nil {
			return services.WrapInternal("failed to delete registration", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.LogMutation(models.NewAuditLog(models.AuditActionRegDeleted, models.KindVolunteers).
		WithActor(actorID, role).
		WithResource(id))
	return nil
}

func (s *VolunteerService) getRegistration(ctx context.Context, id uuid.UUID) (*models.VolunteerRegistration, error) {
	reg, err := s.volunteers.GetByID(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load registration", err)
	}
	if reg == nil {
		return nil, services.ErrRegistrationNotFound
	}
	return reg, nil
}

func (s *VolunteerService) reportDecision(ctx context.Context, actorID uuid.UUID, role models.Role, action models.Action, resourceID *uuid.UUID, d authz.Decision) {
	log := models.NewAuditLog(models.AuditActionDecisionDenied, models.KindVolunteers).
		WithDetails(map[string]interface{}{
			"action": string(action),
			"source": string(d.Source),
			"reason": string(d.Reason),
		})
	if actorID != uuid.Nil {
		log = log.WithActor(actorID, role)
	} else {
		log.ActorRole = role
	}
	if resourceID != nil {
		log = log.WithResource(*resourceID)
	}
	s.audit.LogDecision(log)
}

func applyRegistrationUpdate(reg *models.VolunteerRegistration, input UpdateRegistrationInput) {
	if input.VolunteerName != nil {
		reg.VolunteerName = *input.VolunteerName
	}
	if input.VolunteerPhone != nil {
		reg.VolunteerPhone = *input.VolunteerPhone
	}
	if input.VolunteerEmail != nil {
		reg.VolunteerEmail = *input.VolunteerEmail
	}
	if input.Status != nil {
		reg.Status = *input.Status
	}
	if input.AvailableFrom != nil {
		reg.AvailableFrom = input.AvailableFrom
	}
	if input.Notes != nil {
		reg.Notes = *input.Notes
	}
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
