package app

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldaid/backend/config"
	"github.com/fieldaid/backend/middleware"
	"github.com/fieldaid/backend/repositories"
	"github.com/fieldaid/backend/repositories/postgres"
	"github.com/fieldaid/backend/services/announcements"
	"github.com/fieldaid/backend/services/audit"
	"github.com/fieldaid/backend/services/authz"
	"github.com/fieldaid/backend/services/donations"
	"github.com/fieldaid/backend/services/grids"
	"github.com/fieldaid/backend/services/identity"
	"github.com/fieldaid/backend/services/permissions"
	"github.com/fieldaid/backend/services/privacy"
	"github.com/fieldaid/backend/services/users"
	"github.com/fieldaid/backend/services/volunteers"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Repos     *repositories.Repositories
	TxManager repositories.TransactionManager

	// Authorization engine
	Resolver   *authz.Resolver
	Authorizer *authz.Authorizer
	Filter     *privacy.Filter

	// Services
	AuditService        *audit.AuditService
	GridService         *grids.GridService
	VolunteerService    *volunteers.VolunteerService
	DonationService     *donations.DonationService
	AnnouncementService *announcements.AnnouncementService
	PermissionService   *permissions.PermissionService
	UserService         *users.UserService
	TokenService        *identity.TokenService

	// Middleware
	AuthMiddleware       *middleware.AuthMiddleware
	ActingRoleMiddleware *middleware.ActingRoleMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// NewDependencies creates and wires up all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	deps.initRepositories()
	deps.initAuthorization()

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := deps.seedPermissions(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed permission matrix: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL database connection and factory
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	// Test the connection
	if err := d.DB.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database check failed: %w", err)
	}

	if err := d.DB.InitSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Initialize audit schema when using separate audit DB
	if err := factory.InitAuditSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}

	d.Logger.Info("database connection established",
		zap.String("connection", cfg.Database.LogString()))

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	d.Repos = d.RepoFactory.NewRepositories()
	d.TxManager = d.RepoFactory.GetTransactionManager()
	d.Logger.Info("repositories initialized")
}

// initAuthorization wires the permission resolver, the ownership-aware
// authorizer and the privacy filter.
func (d *Dependencies) initAuthorization() {
	d.Resolver = authz.NewResolver(d.Repos.Permissions, d.Logger)
	d.Authorizer = authz.NewAuthorizer(d.Resolver, d.Logger)
	d.Filter = privacy.NewFilter(d.Logger)
	d.Logger.Info("authorization engine initialized")
}

// initServices initializes the domain services and middleware
func (d *Dependencies) initServices(cfg *config.Config) error {
	d.AuditService = audit.NewAuditService(d.Repos.AuditLogs, d.Logger, audit.Config{
		BufferSize:  cfg.Audit.BufferSize,
		WorkerCount: cfg.Audit.WorkerCount,
	})
	if err := d.AuditService.Start(); err != nil {
		return fmt.Errorf("failed to start audit service: %w", err)
	}

	d.GridService = grids.NewGridService(d.Repos.Grids, d.TxManager, d.Authorizer, d.Filter, d.AuditService, d.Logger)
	d.VolunteerService = volunteers.NewVolunteerService(d.Repos.Volunteers, d.Repos.Grids, d.TxManager, d.Authorizer, d.Filter, d.AuditService, d.Logger)
	d.DonationService = donations.NewDonationService(d.Repos.Donations, d.Repos.Grids, d.TxManager, d.Authorizer, d.Filter, d.AuditService, d.Logger)
	d.AnnouncementService = announcements.NewAnnouncementService(d.Repos.Announcements, d.Authorizer, d.Logger)
	d.PermissionService = permissions.NewPermissionService(d.Repos.Permissions, d.Authorizer, d.AuditService, d.Logger)
	d.UserService = users.NewUserService(d.Repos.Users, d.Authorizer, d.AuditService, d.Logger)
	d.TokenService = identity.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, d.Logger)

	d.AuthMiddleware = middleware.NewAuthMiddleware(d.TokenService, d.Logger)
	d.ActingRoleMiddleware = middleware.NewActingRoleMiddleware(d.Logger)
	d.PermissionMiddleware = middleware.NewPermissionMiddleware(d.Resolver, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// seedPermissions writes the default matrix into the store on first boot.
func (d *Dependencies) seedPermissions(ctx context.Context) error {
	return d.PermissionService.SeedDefaults(ctx)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	// Drain the audit sink before dropping the database connection.
	if d.AuditService != nil {
		if err := d.AuditService.Stop(10 * time.Second); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop audit service: %w", err))
		}
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
