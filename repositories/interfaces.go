package repositories

import (
	"context"
	"time"

	"github.com/fieldaid/backend/models"
	"github.com/google/uuid"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// PermissionRepository is the source of truth for the role/permission
// matrix. Queried fresh per request; the server keeps no cache.
type PermissionRepository interface {
	// GetRule retrieves the rule for a (role, resource_kind) pair.
	// Returns (nil, nil) when no rule exists so callers can apply the
	// fallback default rather than treating absence as deny.
	GetRule(ctx context.Context, role models.Role, kind models.ResourceKind) (*models.PermissionRule, error)

	// List retrieves all rules, optionally filtered by role
	List(ctx context.Context, role *models.Role) ([]*models.PermissionRule, error)

	// Upsert creates or replaces the rule for its (role, resource_kind) pair
	Upsert(ctx context.Context, rule *models.PermissionRule) error

	// Delete removes a rule by ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// GridRepository handles relief grid data operations. GetByID returns
// (nil, nil) when no row exists; the same convention applies to every
// repository below.
type GridRepository interface {
	Create(ctx context.Context, grid *models.Grid) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Grid, error)
	List(ctx context.Context, limit, offset int) ([]*models.Grid, error)
	ListByStatus(ctx context.Context, status models.GridStatus, limit, offset int) ([]*models.Grid, error)
	Update(ctx context.Context, grid *models.Grid) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CountDependents counts live child records per kind. Used to gate
	// cascading permanent deletes.
	CountDependents(ctx context.Context, gridID uuid.UUID) (map[models.ResourceKind]int, error)

	// CascadeDelete permanently deletes the grid and its dependent
	// registrations and donations in one statement batch.
	CascadeDelete(ctx context.Context, gridID uuid.UUID) error
}

// VolunteerRepository handles volunteer registration data operations
type VolunteerRepository interface {
	Create(ctx context.Context, reg *models.VolunteerRegistration) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.VolunteerRegistration, error)
	ListByGrid(ctx context.Context, gridID uuid.UUID, limit, offset int) ([]*models.VolunteerRegistration, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*models.VolunteerRegistration, error)
	Update(ctx context.Context, reg *models.VolunteerRegistration) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DonationRepository handles supply donation data operations
type DonationRepository interface {
	Create(ctx context.Context, donation *models.SupplyDonation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SupplyDonation, error)
	ListByGrid(ctx context.Context, gridID uuid.UUID, limit, offset int) ([]*models.SupplyDonation, error)
	ListByCreator(ctx context.Context, createdBy uuid.UUID, limit, offset int) ([]*models.SupplyDonation, error)
	Update(ctx context.Context, donation *models.SupplyDonation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// AnnouncementRepository handles announcement data operations
type AnnouncementRepository interface {
	Create(ctx context.Context, a *models.Announcement) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Announcement, error)
	List(ctx context.Context, limit, offset int) ([]*models.Announcement, error)
	Update(ctx context.Context, a *models.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository handles user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByIdentitySub(ctx context.Context, sub string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// AuditRepository is the write-only audit sink
type AuditRepository interface {
	// Insert inserts a new audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error

	// GetByDateRange retrieves audit logs within a date range (admin console)
	GetByDateRange(ctx context.Context, start, end time.Time, limit, offset int) ([]*models.AuditLog, error)

	// GetByActor retrieves audit logs for an actor with pagination
	GetByActor(ctx context.Context, actorID uuid.UUID, limit, offset int) ([]*models.AuditLog, error)
}

// Repositories bundles all repository implementations
type Repositories struct {
	Permissions   PermissionRepository
	Grids         GridRepository
	Volunteers    VolunteerRepository
	Donations     DonationRepository
	Announcements AnnouncementRepository
	Users         UserRepository
	AuditLogs     AuditRepository
}
