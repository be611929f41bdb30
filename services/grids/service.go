package grids

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

// GridService orchestrates relief grid operations: authorization, the
// database work, privacy filtering of responses and audit reporting.
type GridService struct {
	grids      repositories.GridRepository
	txManager  repositories.TransactionManager
	authorizer *authz.Authorizer
	filter     *privacy.Filter
	audit      *audit.AuditService
	logger     *zap.Logger
}

// NewGridService creates a new GridService
func NewGridService(
	grids repositories.GridRepository,
	txManager repositories.TransactionManager,
	authorizer *authz.Authorizer,
	filter *privacy.Filter,
	auditSvc *audit.AuditService,
	logger *zap.Logger,
) *GridService {
	return &GridService{
		grids:      grids,
		txManager:  txManager,
		authorizer: authorizer,
		filter:     filter,
		audit:      auditSvc,
		logger:     logger,
	}
}

// CreateGridInput holds the fields for creating a grid
type CreateGridInput struct {
	Code            string          `json:"code" validate:"required,min=1,max=50"`
	Name            string          `json:"name" validate:"required,min=1,max=200"`
	GridType        models.GridType `json:"grid_type" validate:"required,oneof=mud_disposal manpower supply_storage accommodation food_area"`
	CenterLat       float64         `json:"center_lat" validate:"gte=-90,lte=90"`
	CenterLng       float64         `json:"center_lng" validate:"gte=-180,lte=180"`
	VolunteerNeeded int             `json:"volunteer_needed" validate:"gte=0"`
	Description     string          `json:"description" validate:"max=2000"`
	ContactName     string          `json:"contact_name" validate:"max=100"`
	ContactPhone    string          `json:"contact_phone" validate:"max=30"`
	ContactEmail    string          `json:"contact_email" validate:"omitempty,email"`
}

// UpdateGridInput holds the fields for updating a grid. Nil pointers leave
// the stored value untouched.
type UpdateGridInput struct {
	Name            *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Status          *models.GridStatus `json:"status,omitempty" validate:"omitempty,oneof=open closed completed pending"`
	VolunteerNeeded *int               `json:"volunteer_needed,omitempty" validate:"omitempty,gte=0"`
	Description     *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	ContactName     *string            `json:"contact_name,omitempty" validate:"omitempty,max=100"`
	ContactPhone    *string            `json:"contact_phone,omitempty" validate:"omitempty,max=30"`
	ContactEmail    *string            `json:"contact_email,omitempty" validate:"omitempty,email"`
	GridManagerID   *uuid.UUID         `json:"grid_manager_id,omitempty"`
}

// ListGrids returns grids the actor may view, contact fields filtered for
// the viewer.
func (s *GridService) ListGrids(ctx context.Context, actorID uuid.UUID, role models.Role, limit, offset int) ([]*models.Grid, error) {
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindGrids, models.ActionView, nil); !d.Allowed {
		s.reportDecision(ctx, actorID, role, models.ActionView, nil, d)
		return nil, d.Err()
	}

	grids, err := s.grids.List(ctx, limit, offset)
	if err != nil {
		return nil, services.WrapInternal("failed to list grids", err)
	}

	viewer := privacy.ResolveViewer(ctx, s.authorizer.Resolver(), actorID, role)
	return s.filter.FilterGrids(grids, viewer), nil
}

// GetGrid returns a single grid, contact fields filtered for the viewer.
func (s *GridService) GetGrid(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID) (*models.Grid, error) {
	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindGrids, models.ActionView, nil); !d.Allowed {
		s.reportDecision(ctx, actorID, role, models.ActionView, &id, d)
		return nil, d.Err()
	}

	grid, err := s.getGrid(ctx, id)
	if err != nil {
		return nil, err
	}

	viewer := privacy.ResolveViewer(ctx, s.authorizer.Resolver(), actorID, role)
	return s.filter.FilterGrid(grid, viewer), nil
}

// CreateGrid creates a new relief grid.
func (s *GridService) CreateGrid(ctx context.Context, actorID uuid.UUID, role models.Role, input CreateGridInput) (*models.Grid, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid grid input", err)
	}

	if d := s.authorizer.Authorize(ctx, actorID, role, models.KindGrids, models.ActionCreate, nil); !d.Allowed {
		s.reportDecision(ctx, actorID, role, models.ActionCreate, nil, d)
		return nil, d.Err()
	}

	grid := models.NewGrid(input.Code, input.Name, input.GridType, actorID)
	grid.CenterLat = input.CenterLat
	grid.CenterLng = input.CenterLng
	grid.VolunteerNeeded = input.VolunteerNeeded
	grid.Description = input.Description
	grid.ContactName = input.ContactName
	grid.ContactPhone = input.ContactPhone
	grid.ContactEmail = input.ContactEmail

	if err := s.grids.Create(ctx, grid); err != nil {
		return nil, services.WrapInternal("failed to create grid", err)
	}

	s.logger.Info("grid created",
		zap.String("grid_id", grid.ID.String()),
		zap.String("code", grid.Code),
		zap.String("actor_id", actorID.String()))
	s.audit.LogMutation(models.NewAuditLog(models.AuditActionGridCreated, models.KindGrids).
		WithActor(actorID, role).
		WithResource(grid.ID))

	return grid, nil
}

// UpdateGrid updates a grid. Ownership may supply the edit grant via the
// owner-scoped kind; both the permission check and the write happen inside
// one transaction so the checked row is the written row.
func (s *GridService) UpdateGrid(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID, input UpdateGridInput) (*models.Grid, error) {
	if actorID == uuid.Nil {
		return nil, services.ErrUnauthenticated
	}
	if err := utils.ValidateStruct(input); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "invalid grid input", err)
	}

	var updated *models.Grid
	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		grid, err := s.getGrid(txCtx, id)
		if err != nil {
			return err
		}

		if d := s.authorizer.Authorize(txCtx, actorID, role, models.KindGrids, models.ActionEdit, grid); !d.Allowed {
			s.reportDecision(txCtx, actorID, role, models.ActionEdit, &id, d)
			return d.Err()
		}

		applyGridUpdate(grid, input)
		if err := s.grids.Update(txCtx, grid); err != nil {
			return services.WrapInternal("failed to update grid", err)
		}
		updated = grid
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.LogMutation(models.NewAuditLog(models.AuditActionGridUpdated, models.KindGrids).
		WithActor(actorID, role).
		WithResource(id))
	return updated, nil
}

// DeleteGrid permanently deletes a grid. When dependent registrations or
// donations survive, every dependent kind additionally requires the
// matching trash-kind delete grant; a missing grant turns into a conflict
// that names the dependent counts, never a silent partial delete.
func (s *GridService) DeleteGrid(ctx context.Context, actorID uuid.UUID, role models.Role, id uuid.UUID) error {
	if actorID == uuid.Nil {
		return services.ErrUnauthenticated
	}

	err := s.txManager.InTransaction(ctx, func(txCtx context.Context, _ repositories.Transaction) error {
		grid, err := s.getGrid(txCtx, id)
		if err != nil {
			return err
		}

		if d := s.authorizer.Authorize(txCtx, actorID, role, models.KindGrids, models.ActionDelete, grid); !d.Allowed {
			s.reportDecision(txCtx, actorID, role, models.ActionDelete, &id, d)
			return d.Err()
		}

		dependents, err := s.grids.CountDependents(txCtx, id)
		if err != nil {
			return services.WrapInternal("failed to count grid dependents", err)
		}

		if len(dependents) == 0 {
			if err := s.grids.Delete(txCtx, id); err != nil {
				return services.WrapInternal("failed to delete grid", err)
			}
			return nil
		}

		if err := s.authorizer.AuthorizeCascadeDelete(txCtx, role, dependents); err != nil {
			return err
		}
		if err := s.grids.CascadeDelete(txCtx, id); err != nil {
			return services.WrapInternal("failed to cascade delete grid", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("grid deleted",
		zap.String("grid_id", id.String()),
		zap.String("actor_id", actorID.String()))
	s.audit.LogMutation(models.NewAuditLog(models.AuditActionGridDeleted, models.KindGrids).
		WithActor(actorID, role).
		WithResource(id))
	return nil
}

func (s *GridService) getGrid(ctx context.Context, id uuid.UUID) (*models.Grid, error) {
	grid, err := s.grids.GetByID(ctx, id)
	if err != nil {
		return nil, services.WrapInternal("failed to load grid", err)
	}
	if grid == nil {
		return nil, services.ErrGridNotFound
	}
	return grid, nil
}

func (s *GridService) reportDecision(ctx context.Context, actorID uuid.UUID, role models.Role, action models.Action, resourceID *uuid.UUID, d authz.Decision) {
	log := models.NewAuditLog(models.AuditActionDecisionDenied, models.KindGrids).
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

func applyGridUpdate(grid *models.Grid, input UpdateGridInput) {
	if input.Name != nil {
		grid.Name = *input.Name
	}
	if input.Status != nil {
		grid.Status = *input.Status
	}
	if input.VolunteerNeeded != nil {
		grid.VolunteerNeeded = *input.VolunteerNeeded
	}
	if input.Description != nil {
		grid.Description = *input.Description
	}
	if input.ContactName != nil {
		grid.ContactName = *input.ContactName
	}
	if input.ContactPhone != nil {
		grid.ContactPhone = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		grid.ContactEmail = *input.ContactEmail
	}
	if input.GridManagerID != nil {
		grid.GridManagerID = input.GridManagerID
	}
}
