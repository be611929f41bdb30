package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/repositories"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PermissionRepository implements the repositories.PermissionRepository interface
type PermissionRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(db *DB, logger *zap.Logger) repositories.PermissionRepository {
	return &PermissionRepository{
		db:     db,
		logger: logger,
	}
}

const ruleColumns = `id, role, resource_kind, can_view, can_create, can_edit, can_delete, can_manage, description, created_at, updated_at`

// GetRule retrieves the rule for a (role, resource_kind) pair.
// Returns (nil, nil) when no rule exists; the resolver decides whether a
// missing row means fallback or deny, not this layer.
func (r *PermissionRepository) GetRule(ctx context.Context, role models.Role, kind models.ResourceKind) (*models.PermissionRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM permission_rules
		WHERE role = $1 AND resource_kind = $2
	`

	executor := GetExecutor(ctx, r.db)
	rule := &models.PermissionRule{}

	err := executor.QueryRowContext(ctx, query, role, kind).Scan(
		&rule.ID,
		&rule.Role,
		&rule.ResourceKind,
		&rule.CanView,
		&rule.CanCreate,
		&rule.CanEdit,
		&rule.CanDelete,
		&rule.CanManage,
		&rule.Description,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get permission rule: %w", err)
	}

	return rule, nil
}

// List retrieves all rules, optionally filtered by role
func (r *PermissionRepository) List(ctx context.Context, role *models.Role) ([]*models.PermissionRule, error) {
	query := `
		SELECT ` + ruleColumns + `
		FROM permission_rules
	`
	args := []interface{}{}

	if role != nil {
		query += ` WHERE role = $1`
		args = append(args, *role)
	}
	query += ` ORDER BY role, resource_kind`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query permission rules: %w", err)
	}
	defer rows.Close()

	var rules []*models.PermissionRule
	for rows.Next() {
		rule := &models.PermissionRule{}
		err := rows.Scan(
			&rule.ID,
			&rule.Role,
			&rule.ResourceKind,
			&rule.CanView,
			&rule.CanCreate,
			&rule.CanEdit,
			&rule.CanDelete,
			&rule.CanManage,
			&rule.Description,
			&rule.CreatedAt,
			&rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan permission rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating permission rule rows: %w", err)
	}

	return rules, nil
}

// Upsert creates or replaces the rule for its (role, resource_kind) pair.
// The unique constraint keeps at most one rule per pair.
func (r *PermissionRepository) Upsert(ctx context.Context, rule *models.PermissionRule) error {
	query := `
		INSERT INTO permission_rules (id, role, resource_kind, can_view, can_create, can_edit, can_delete, can_manage, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (role, resource_kind) DO UPDATE SET
			can_view = EXCLUDED.can_view,
			can_create = EXCLUDED.can_create,
			can_edit = EXCLUDED.can_edit,
			can_delete = EXCLUDED.can_delete,
			can_manage = EXCLUDED.can_manage,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		rule.ID,
		rule.Role,
		rule.ResourceKind,
		rule.CanView,
		rule.CanCreate,
		rule.CanEdit,
		rule.CanDelete,
		rule.CanManage,
		rule.Description,
		rule.CreatedAt,
		rule.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("permission rule already exists for (%s, %s): %w", rule.Role, rule.ResourceKind, err)
		}
		return fmt.Errorf("failed to upsert permission rule: %w", err)
	}

	r.logger.Debug("permission rule upserted",
		zap.String("role", string(rule.Role)),
		zap.String("resource_kind", string(rule.ResourceKind)))
	return nil
}

// Delete removes a rule by ID
func (r *PermissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM permission_rules WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete permission rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("permission rule not found: %s", id)
	}

	r.logger.Debug("permission rule deleted", zap.String("id", id.String()))
	return nil
}
