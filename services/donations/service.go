package donations

import (
	"context"

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

// DonationService orchestrates supply donation operations. Donor contact
// fields in every response pass through the privacy filter.
type DonationService struct {
	donations  repositories.DonationRepository
	grids      repositories.GridRepository
	txManager  repositories.TransactionManager
	authorizer *authz.Authorizer
	filter     *privacy.Filter
	audit      *audit.AuditService
	logger     *zap.Logger
}

// NewDonationService creates a new DonationService
func NewDonationService(
	donations repositories.DonationRepository,
	grids repositories.GridRepository,
	txManager repositories.TransactionManager,
	authorizer *authz.Authorizer,
	filter *privacy.Filter,
	auditSvc *audit.AuditService,
	logger *zap.Logger,
) *DonationService {
	return &DonationService{
		donations:  donations,
		grids:      grids,
		txManager:  txManager,
		authorizer: authorizer,
		filter:     filter,
		audit:      auditSvc,
		logger:     logger,
	}
}

// CreateDonationInput holds the fields for pledging a donation
type CreateDonationInput struct {
	GridID       uuid.UUID `json:"grid_id" validate:"required"`
	DonorName    string    `json:"donor_name" validate:"required,min=1,max=100"`
	DonorPhone   string    `json:"donor_phone" validate:"max=30"`
	DonorEmail   string    `json:"donor_email" validate:"omitempty,email"`
	SupplyName   string    `json:"supply_name" validate:"required,min=1,max=200"`
	Quantity     int       `json:"quantity" validate:"gt=0"`
	Unit         string    `json:"unit" validate:"max=20"`
	DeliveryNote string    `json:"delivery_note" validate:"max=2000"`
}

// UpdateDonationInput holds the fields for updating a donation
type UpdateDonationInput struct {
	DonorName    *string                `json:"donor_name,omitempty" validate:"omitempty,min=1,max=100"`
	DonorPhone   *string                `json:"donor_phone,omitempty" validate:"omitempty,max=30"`
	DonorEmail   *string                `json:"donor_email,omitempty" validate:"omitempty,email"`
	Quantity     *int                   `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	Status       *models.DonationStatus `json:"status,omitempty" validate:"omitempty,oneof=pledged in_transit delivered cancelled"`
	DeliveryNote *string                `json:"delivery_note,omitempty" validate:"omitempty,max=2000"`
}

// ListByGrid returns a grid's donations with donor contact fields filtered.
func (s *DonationService) ListByGrid(ctx context.Context, actorID uuid.UUID, role models.Role, gridID uuid.UUID, limit, offset int) ([]*models.SupplyDonation, error) {
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindDonations, models.ActionView, nil); !d.Allowed {
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

	donations, err := s.donations.ListByGrid(ctx, gridID, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list donations", err)
	}

	viewer := privacy.ResolveViewer(ctx, s.authorizer.Resolver(), actorID, role)
	ownedGrids := map[uuid.UUID]bool{gridID: ownedBy(grid, actorID)}
	return s.filter.FilterDonations(donations, viewer, ownedGrids), nil
}

// ListMine returns the actor's own donations, undisclosed to nobody.
func (s *DonationService) ListMine(ctx context.Context, actorID uuid.UUID, role models.Role, limit, offset int) ([]*models.SupplyDonation, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}

	donations, err := s.donations.ListByCreator(ctx, actorID, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list donations", err)
	}
	return donations, nil
}

// CreateDonation pledges supplies toward a grid.
func (s *DonationService) CreateDonation(ctx context.Context, actorID uuid.UUID, role models.Role, input CreateDonationInput) (*models.SupplyDonation, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid donation input", err)
	}

	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindDonations, models.ActionCreate, nil); !d.Allowed {
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

	donation := models.NewSupplyDonation(input.GridID, actorID, input.SupplyName, input.Quantity)
	donation.DonorName = input.DonorName
	donation.DonorPhone = input.DonorPhone
	donation.DonorEmail = input.DonorEmail
	donation.Unit = input.Unit
	donation.DeliveryNote = input.DeliveryNote

	if err := s.donations.Create(ctx, donation); err != nil {
		return nil, services.WrapInternal("failed to create donation", err)
	}

	s.logger.Info("supply donation created",
		zap.String("donation_id", donation.ID.String()),
		zap.String("grid_id", input.GridID.String()),
		zap.String("actor_id", actorID.String()))
	s.audit.LogMutation(models.NewAuditLog(models.AuditActionDonationCreated, models.KindDonations).
		WithActor(actorID, role).
		WithResource(donation.ID))

	return donation, nil
}

// UpdateDonation updates a donation. The pledging donor may draw the edit
// grant from the owner-scoped kind.
func (s *DonationService) UpdateDonation(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID, input UpdateDonationInput) (*models.SupplyDonation, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid donation input", err)
	}

	var updated *models.SupplyDonation
	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		donation, err := s.getDonation(txCtx, id)
		if err != nil {
			return err
		}

		if d := s.authorizer.Authorize(txCtx, actorID, role, models.KindDonations, models.ActionEdit, donation); !d.Allowed {
			s.reportDecision(txCtx, actorID, role, models.ActionEdit, &id, d)
			return d.Err()
		}

		applyDonationUpdate(donation, input)
		if err := s.donations.Update(txCtx, donation); err != nil {
			return services.WrapInternal("failed to update donation", err)
		}
		updated = donation
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogMutation(models.NewAuditLog(models.AuditActionDonationUpdated, models.KindDonations).
		WithActor(actorID, role).
		WithResource(id))
	return updated, nil
}

// DeleteDonation removes a donation.
func (s *DonationService) DeleteDonation(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID) error {
	if actorID == uuid.Nil {
		return services.ErrUnauthenticated
	}

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		donation, err := s.getDonation(txCtx, id)
		if err != nil {
			return err
		}

		if d := s.authorizer.Authorize(txCtx, actorID, role, models.KindDonations, models.ActionDelete, donation); !d.Allowed {
			s.reportDecision(txCtx, actorID, role, models.ActionDelete, &id, d)
			return d.Err()
		}

		if err := s.donations.Delete(txCtx, id); err != nil {
			return services.WrapInternal("failed to delete donation", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.audit.LogMutation(models.NewAuditLog(models.AuditActionDonationDeleted, models.KindDonations).
		WithActor(actorID, role).
		WithResource(id))
	return nil
}

func (s *DonationService) getDonation(ctx context.Context, id uuid.UUID) (*models.SupplyDonation, error) {
	donation, err := s.donations.GetByID(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load donation", err)
	}
	if donation == nil {
		return nil, services.ErrDonationNotFound
	}
	return donation, nil
}

func (s *DonationService) reportDecision(ctx context.Context, actorID uuid.UUID, role models.Role, action models.Action, resourceID *uuid.UUID, d authz.Decision) {
	log := models.NewAuditLog(models.AuditActionDecisionDenied, models.KindDonations).
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

func applyDonationUpdate(donation *models.SupplyDonation, input UpdateDonationInput) {
	if input.DonorName != nil {
		donation.DonorName = *input.DonorName
	}
	if input.DonorPhone != nil {
		donation.DonorPhone = *input.DonorPhone
	}
	if input.DonorEmail != nil {
		donation.DonorEmail = *input.DonorEmail
	}
	if input.Quantity != nil {
		donation.Quantity = *input.Quantity
	}
	if input.Status != nil {
		donation.Status = *input.Status
	}
	if input.DeliveryNote != nil {
		donation.DeliveryNote = *input.DeliveryNote
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
