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

// GridRepository implements the repositories.GridRepository interface
type GridRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGridRepository creates a new grid repository
func NewGridRepository(db *DB, logger *zap.Logger) repositories.GridRepository {
	return &GridRepository{
		db:     db,
		logger: logger,
	}
}

const gridColumns = `id, code, name, grid_type, status, center_lat, center_lng, volunteer_needed, description, contact_name, contact_phone, contact_email, created_by_id, grid_manager_id, created_at, updated_at`

// Create creates a new grid
func (r *GridRepository) Create(ctx context.Context, grid *models.Grid) error {
	query := `
		INSERT INTO grids (` + gridColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		grid.ID,
		grid.Code,
		grid.Name,
		grid.GridType,
		grid.Status,
		grid.CenterLat,
		grid.CenterLng,
		grid.VolunteerNeeded,
		grid.Description,
		grid.ContactName,
		grid.ContactPhone,
		grid.ContactEmail,
		grid.CreatedByID,
		grid.GridManagerID,
		grid.CreatedAt,
		grid.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create grid: %w", err)
	}

	r.logger.Debug("grid created", zap.String("id", grid.ID.String()))
	return nil
}

// GetByID retrieves a grid by ID
func (r *GridRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Grid, error) {
	query := `
		SELECT ` + gridColumns + `
		FROM grids
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	grid := &models.Grid{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&grid.ID,
		&grid.Code,
		&grid.Name,
		&grid.GridType,
		&grid.Status,
		&grid.CenterLat,
		&grid.CenterLng,
		&grid.VolunteerNeeded,
		&grid.Description,
		&grid.ContactName,
		&grid.ContactPhone,
		&grid.ContactEmail,
		&grid.CreatedByID,
		&grid.GridManagerID,
		&grid.CreatedAt,
		&grid.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get grid: %w", err)
	}

	return grid, nil
}

// List retrieves grids with pagination
func (r *GridRepository) List(ctx context.Context, limit, offset int) ([]*models.Grid, error) {
	query := `
		SELECT ` + gridColumns + `
		FROM grids
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryGrids(ctx, query, limit, offset)
}

// ListByStatus retrieves grids filtered by status
func (r *GridRepository) ListByStatus(ctx context.Context, status models.GridStatus, limit, offset int) ([]*models.Grid, error) {
	query := `
		SELECT ` + gridColumns + `
		FROM grids
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryGrids(ctx, query, status, limit, offset)
}

// Update updates a grid
func (r *GridRepository) Update(ctx context.Context, grid *models.Grid) error {
	query := `
		UPDATE grids
		SET name = $2,
		    grid_type = $3,
		    status = $4,
		    center_lat = $5,
		    center_lng = $6,
		    volunteer_needed = $7,
		    description = $8,
		    contact_name = $9,
		    contact_phone = $10,
		    contact_email = $11,
		    grid_manager_id = $12,
		    updated_at = $13
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		grid.ID,
		grid.Name,
		grid.GridType,
		grid.Status,
		grid.CenterLat,
		grid.CenterLng,
		grid.VolunteerNeeded,
		grid.Description,
		grid.ContactName,
		grid.ContactPhone,
		grid.ContactEmail,
		grid.GridManagerID,
		grid.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update grid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("grid not found: %s", grid.ID)
	}

	r.logger.Debug("grid updated", zap.String("id", grid.ID.String()))
	return nil
}

// Delete deletes a grid. Fails on live dependents; use CascadeDelete after
// the cascade permission check to remove a grid and its children together.
func (r *GridRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM grids WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete grid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("grid not found: %s", id)
	}

	r.logger.Debug("grid deleted", zap.String("id", id.String()))
	return nil
}

// CountDependents counts live child records per kind
func (r *GridRepository) CountDependents(ctx context.Context, gridID uuid.UUID) (map[models.ResourceKind]int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM volunteer_registrations WHERE grid_id = $1),
			(SELECT COUNT(*) FROM supply_donations WHERE grid_id = $1)
	`

	executor := GetExecutor(ctx, r.db)
	var regs, donations int
	if err := executor.QueryRowContext(ctx, query, gridID).Scan(&regs, &donations); err != nil {
		return nil, fmt.Errorf("failed to count grid dependents: %w", err)
	}

	counts := make(map[models.ResourceKind]int)
	if regs > 0 {
		counts[models.KindVolunteers] = regs
	}
	if donations > 0 {
		counts[models.KindDonations] = donations
	}
	return counts, nil
}

// CascadeDelete permanently deletes the grid and its dependent records.
// Callers must hold the trash permissions for every dependent kind first.
func (r *GridRepository) CascadeDelete(ctx context.Context, gridID uuid.UUID) error {
	executor := GetExecutor(ctx, r.db)

	statements := []string{
		`DELETE FROM volunteer_registrations WHERE grid_id = $1`,
		`DELETE FROM supply_donations WHERE grid_id = $1`,
		`DELETE FROM grids WHERE id = $1`,
	}

	for _, stmt := range statements {
		if _, err := executor.ExecContext(ctx, stmt, gridID); err != nil {
			return fmt.Errorf("failed cascade delete of grid %s: %w", gridID, err)
		}
	}

	r.logger.Debug("grid cascade-deleted", zap.String("id", gridID.String()))
	return nil
}

// queryGrids is a helper method to query multiple grids
func (r *GridRepository) queryGrids(ctx context.Context, query string, args ...interface{}) ([]*models.Grid, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grids: %w", err)
	}
	defer rows.Close()

	var grids []*models.Grid
	for rows.Next() {
		grid := &models.Grid{}
		err := rows.Scan(
			&grid.ID,
			&grid.Code,
			&grid.Name,
			&grid.GridType,
			&grid.Status,
			&grid.CenterLat,
			&grid.CenterLng,
			&grid.VolunteerNeeded,
			&grid.Description,
			&grid.ContactName,
			&grid.ContactPhone,
			&grid.ContactEmail,
			&grid.CreatedByID,
			&grid.GridManagerID,
			&grid.CreatedAt,
			&grid.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan grid: %w", err)
		}
		grids = append(grids, grid)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grid rows: %w", err)
	}

	return grids, nil
}
