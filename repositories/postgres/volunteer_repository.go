package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VolunteerRepository implements the repositories.VolunteerRepository interface
type VolunteerRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewVolunteerRepository creates a new volunteer registration repository
func NewVolunteerRepository(db *DB, logger *zap.Logger) repositories.VolunteerRepository {
	return &VolunteerRepository{
		db:     db,
		logger: logger,
	}
}

const registrationColumns = `id, grid_id, volunteer_name, volunteer_phone, volunteer_email, status, available_from, notes, created_by_id, created_at, updated_at`

// Create creates a new volunteer registration
func (r *VolunteerRepository) Create(ctx context.Context, reg *models.VolunteerRegistration) error {
	query := `
		INSERT INTO volunteer_registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		reg.ID,
		reg.GridID,
		reg.VolunteerName,
		reg.VolunteerPhone,
		reg.VolunteerEmail,
		reg.Status,
		reg.AvailableFrom,
		reg.Notes,
		reg.CreatedByID,
		reg.CreatedAt,
		reg.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create volunteer registration: %w", err)
	}

	r.logger.Debug("volunteer registration created", zap.String("id", reg.ID.String()))
	return nil
}

// GetByID retrieves a volunteer registration by ID
func (r *VolunteerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VolunteerRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM volunteer_registrations
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	reg := &models.VolunteerRegistration{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&reg.ID,
		&reg.GridID,
		&reg.VolunteerName,
		&reg.VolunteerPhone,
		&reg.VolunteerEmail,
		&reg.Status,
		&reg.AvailableFrom,
		&reg.Notes,
		&reg.CreatedByID,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get volunteer registration: %w", err)
	}

	return reg, nil
}

// ListByGrid retrieves registrations for a grid
func (r *VolunteerRepository) ListByGrid(ctx context.Context, gridID uuid.UUID, limit, offset int) ([]*models.VolunteerRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM volunteer_registrations
		WHERE grid_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryRegistrations(ctx, query, gridID, limit, offset)
}

// ListByCreator retrieves registrations created by an actor
func (r *VolunteerRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*models.VolunteerRegistration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM volunteer_registrations
		WHERE created_by_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryRegistrations(ctx, query, createdBy, limit, offset)
}

// Update updates a volunteer registration
func (r *VolunteerRepository) Update(ctx context.Context, reg *models.VolunteerRegistration) error {
	query := `
		UPDATE volunteer_registrations
		SET volunteer_name = $2,
		    volunteer_phone = $3,
		    volunteer_email = $4,
		    status = $5,
		    available_from = $6,
		    notes = $7,
		    updated_at = $8
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		reg.ID,
		reg.VolunteerName,
		reg.VolunteerPhone,
		reg.VolunteerEmail,
		reg.Status,
		reg.AvailableFrom,
		reg.Notes,
		reg.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update volunteer registration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("volunteer registration not found: %s", reg.ID)
	}

	r.logger.Debug("volunteer registration updated", zap.String("id", reg.ID.String()))
	return nil
}

// Delete deletes a volunteer registration
func (r *VolunteerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM volunteer_registrations WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete volunteer registration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("volunteer registration not found: %s", id)
	}

	r.logger.Debug("volunteer registration deleted", zap.String("id", id.String()))
	return nil
}

// queryRegistrations is a helper method to query multiple registrations
func (r *VolunteerRepository) queryRegistrations(ctx context.Context, query string, args ...interface{}) ([]*models.VolunteerRegistration, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query volunteer registrations: %w", err)
	}
	defer rows.Close()

	var regs []*models.VolunteerRegistration
	for rows.Next() {
		reg := &models.VolunteerRegistration{}
		err := rows.Scan(
			&reg.ID,
			&reg.GridID,
			&reg.VolunteerName,
			&reg.VolunteerPhone,
			&reg.VolunteerEmail,
			&reg.Status,
			&reg.AvailableFrom,
			&reg.Notes,
			&reg.CreatedByID,
			&reg.CreatedAt,
			&reg.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer registration: %w", err)
		}
		regs = append(regs, reg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating volunteer registration rows: %w", err)
	}

	return regs, nil
}
