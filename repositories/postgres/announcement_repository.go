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

// AnnouncementRepository implements the repositories.AnnouncementRepository interface
type AnnouncementRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAnnouncementRepository creates a new announcement repository
func NewAnnouncementRepository(db *DB, logger *zap.Logger) repositories.AnnouncementRepository {
	return &AnnouncementRepository{
		db:     db,
		logger: logger,
	}
}

const announcementColumns = `id, title, body, pinned, created_by_id, created_at, updated_at`

// Create creates a new announcement
func (r *AnnouncementRepository) Create(ctx context.Context, a *models.Announcement) error {
	query := `
		INSERT INTO announcements (` + announcementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Body,
		a.Pinned,
		a.CreatedByID,
		a.CreatedAt,
		a.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}

	r.logger.Debug("announcement created", zap.String("id", a.ID.String()))
	return nil
}

// GetByID retrieves an announcement by ID
func (r *AnnouncementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	a := &models.Announcement{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.Title,
		&a.Body,
		&a.Pinned,
		&a.CreatedByID,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get announcement: %w", err)
	}

	return a, nil
}

// List retrieves announcements, pinned first
func (r *AnnouncementRepository) List(ctx context.Context, limit, offset int) ([]*models.Announcement, error) {
	query := `
		SELECT ` + announcementColumns + `
		FROM announcements
		ORDER BY pinned DESC, created_at DESC
		LIMIT $1 OFFSET $2
	`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query announcements: %w", err)
	}
	defer rows.Close()

	var announcements []*models.Announcement
	for rows.Next() {
		a := &models.Announcement{}
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Body,
			&a.Pinned,
			&a.CreatedByID,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan announcement: %w", err)
		}
		announcements = append(announcements, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating announcement rows: %w", err)
	}

	return announcements, nil
}

// Update updates an announcement
func (r *AnnouncementRepository) Update(ctx context.Context, a *models.Announcement) error {
	query := `
		UPDATE announcements
		SET title = $2,
		    body = $3,
		    pinned = $4,
		    updated_at = $5
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Body,
		a.Pinned,
		a.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update announcement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("announcement not found: %s", a.ID)
	}

	r.logger.Debug("announcement updated", zap.String("id", a.ID.String()))
	return nil
}

// Delete deletes an announcement
func (r *AnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM announcements WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("announcement not found: %s", id)
	}

	r.logger.Debug("announcement deleted", zap.String("id", id.String()))
	return nil
}
