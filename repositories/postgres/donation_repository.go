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

// DonationRepository implements the repositories.DonationRepository interface
type DonationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDonationRepository creates a new supply donation repository
func NewDonationRepository(db *DB, logger *zap.Logger) repositories.DonationRepository {
	return &DonationRepository{
		db:     db,
		logger: logger,
	}
}

const donationColumns = `id, grid_id, donor_name, donor_phone, donor_email, supply_name, quantity, unit, status, delivery_note, created_by_id, created_at, updated_at`

// Create creates a new supply donation
func (r *DonationRepository) Create(ctx context.Context, donation *models.SupplyDonation) error {
	query := `
		INSERT INTO supply_donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		donation.ID,
		donation.GridID,
		donation.DonorName,
		donation.DonorPhone,
		donation.DonorEmail,
		donation.SupplyName,
		donation.Quantity,
		donation.Unit,
		donation.Status,
		donation.DeliveryNote,
		donation.CreatedByID,
		donation.CreatedAt,
		donation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create supply donation: %w", err)
	}

	r.logger.Debug("supply donation created", zap.String("id", donation.ID.String()))
	return nil
}

// GetByID retrieves a supply donation by ID
func (r *DonationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SupplyDonation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM supply_donations
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	donation := &models.SupplyDonation{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&donation.ID,
		&donation.GridID,
		&donation.DonorName,
		&donation.DonorPhone,
		&donation.DonorEmail,
		&donation.SupplyName,
		&donation.Quantity,
		&donation.Unit,
		&donation.Status,
		&donation.DeliveryNote,
		&donation.CreatedByID,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get supply donation: %w", err)
	}

	return donation, nil
}

// ListByGrid retrieves donations for a grid
func (r *DonationRepository) ListByGrid(ctx context.Context, gridID uuid.UUID, limit, offset int) ([]*models.SupplyDonation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM supply_donations
		WHERE grid_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryDonations(ctx, query, gridID, limit, offset)
}

// ListByCreator retrieves donations created by an actor
func (r *DonationRepository) ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*models.SupplyDonation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM supply_donations
		WHERE created_by_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryDonations(ctx, query, createdBy, limit, offset)
}

// Update updates a supply donation
func (r *DonationRepository) Update(ctx context.Context, donation *models.SupplyDonation) error {
	query := `
		UPDATE supply_donations
		SET donor_name = $2,
		    donor_phone = $3,
		    donor_email = $4,
		    supply_name = $5,
		    quantity = $6,
		    unit = $7,
		    status = $8,
		    delivery_note = $9,
		    updated_at = $10
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		donation.ID,
		donation.DonorName,
		donation.DonorPhone,
		donation.DonorEmail,
		donation.SupplyName,
		donation.Quantity,
		donation.Unit,
		donation.Status,
		donation.DeliveryNote,
		donation.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update supply donation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("supply donation not found: %s", donation.ID)
	}

	r.logger.Debug("supply donation updated", zap.String("id", donation.ID.String()))
	return nil
}

// Delete deletes a supply donation
func (r *DonationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM supply_donations WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete supply donation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("supply donation not found: %s", id)
	}

	r.logger.Debug("supply donation deleted", zap.String("id", id.String()))
	return nil
}

// queryDonations is a helper method to query multiple donations
func (r *DonationRepository) queryDonations(ctx context.Context, query string, args ...interface{}) ([]*models.SupplyDonation, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query supply donations: %w", err)
	}
	defer rows.Close()

	var donations []*models.SupplyDonation
	for rows.Next() {
		donation := &models.SupplyDonation{}
		err := rows.Scan(
			&donation.ID,
			&donation.GridID,
			&donation.DonorName,
			&donation.DonorPhone,
			&donation.DonorEmail,
			&donation.SupplyName,
			&donation.Quantity,
			&donation.Unit,
			&donation.Status,
			&donation.DeliveryNote,
			&donation.CreatedByID,
			&donation.CreatedAt,
			&donation.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan supply donation: %w", err)
		}
		donations = append(donations, donation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supply donation rows: %w", err)
	}

	return donations, nil
}
