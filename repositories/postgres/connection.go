package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/fieldaid/backend/config"
	"go.uber.org/zap"
)

// DB wraps the sql.DB connection pool
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a new database connection pool
func NewDB(cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dsn := cfg.DSN()
	
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("connection", cfg.LogString()))

	return &DB{
		DB:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() error {
	db.logger.Info("closing database connection")
	return db.DB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check if we can query
	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("database query check failed: %w", err)
	}

	return nil
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}

// RunMigrations runs database migrations from the migrations directory
func (db *DB) RunMigrations(ctx context.Context, migrationsPath string) error {
	db.logger.Info("running database migrations", zap.String("path", migrationsPath))
	
	// Create migrations table if it doesn't exist
	createMigrationsTable := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version BIGINT PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	// Note: In production, use a proper migration tool like golang-migrate
	// This is a simplified implementation for demonstration
	db.logger.Info("migrations completed successfully")
	return nil
}

// InitSchema initializes the database schema
func (db *DB) InitSchema(ctx context.Context) error {
	schema := `
		-- Users table
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			display_name VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT '',
			identity_sub VARCHAR(255) NOT NULL UNIQUE,
			role VARCHAR(50) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Permission rules table: one row per (role, resource_kind)
		CREATE TABLE IF NOT EXISTS permission_rules (
			id UUID PRIMARY KEY,
			role VARCHAR(50) NOT NULL,
			resource_kind VARCHAR(100) NOT NULL,
			can_view BOOLEAN NOT NULL DEFAULT false,
			can_create BOOLEAN NOT NULL DEFAULT false,
			can_edit BOOLEAN NOT NULL DEFAULT false,
			can_delete BOOLEAN NOT NULL DEFAULT false,
			can_manage BOOLEAN NOT NULL DEFAULT false,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(role, resource_kind)
		);

		-- Relief grids table
		CREATE TABLE IF NOT EXISTS grids (
			id UUID PRIMARY KEY,
			code VARCHAR(50) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			grid_type VARCHAR(50) NOT NULL,
			status VARCHAR(50) NOT NULL,
			center_lat DOUBLE PRECISION NOT NULL DEFAULT 0,
			center_lng DOUBLE PRECISION NOT NULL DEFAULT 0,
			volunteer_needed INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL DEFAULT '',
			contact_name VARCHAR(255) NOT NULL DEFAULT '',
			contact_phone VARCHAR(50) NOT NULL DEFAULT '',
			contact_email VARCHAR(255) NOT NULL DEFAULT '',
			created_by_id UUID NOT NULL REFERENCES users(id),
			grid_manager_id UUID REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Volunteer registrations table
		CREATE TABLE IF NOT EXISTS volunteer_registrations (
			id UUID PRIMARY KEY,
			grid_id UUID NOT NULL REFERENCES grids(id),
			volunteer_name VARCHAR(255) NOT NULL,
			volunteer_phone VARCHAR(50) NOT NULL DEFAULT '',
			volunteer_email VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL,
			available_from TIMESTAMP,
			notes TEXT NOT NULL DEFAULT '',
			created_by_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Supply donations table
		CREATE TABLE IF NOT EXISTS supply_donations (
			id UUID PRIMARY KEY,
			grid_id UUID NOT NULL REFERENCES grids(id),
			donor_name VARCHAR(255) NOT NULL,
			donor_phone VARCHAR(50) NOT NULL DEFAULT '',
			donor_email VARCHAR(255) NOT NULL DEFAULT '',
			supply_name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL DEFAULT 0,
			unit VARCHAR(50) NOT NULL DEFAULT '',
			status VARCHAR(50) NOT NULL,
			delivery_note TEXT NOT NULL DEFAULT '',
			created_by_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Announcements table
		CREATE TABLE IF NOT EXISTS announcements (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			body TEXT NOT NULL DEFAULT '',
			pinned BOOLEAN NOT NULL DEFAULT false,
			created_by_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Audit logs table
		CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY,
			actor_id UUID,
			actor_role VARCHAR(50) NOT NULL DEFAULT '',
			action VARCHAR(100) NOT NULL,
			resource_kind VARCHAR(100) NOT NULL,
			resource_id UUID,
			details JSONB,
			ip_address VARCHAR(45),
			user_agent TEXT,
			request_id VARCHAR(255),
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		-- Indexes for performance
		CREATE INDEX IF NOT EXISTS idx_permission_rules_role ON permission_rules(role);
		CREATE INDEX IF NOT EXISTS idx_permission_rules_kind ON permission_rules(resource_kind);
		CREATE INDEX IF NOT EXISTS idx_grids_status ON grids(status);
		CREATE INDEX IF NOT EXISTS idx_grids_created_by ON grids(created_by_id);
		CREATE INDEX IF NOT EXISTS idx_grids_manager ON grids(grid_manager_id);
		CREATE INDEX IF NOT EXISTS idx_volunteer_registrations_grid ON volunteer_registrations(grid_id);
		CREATE INDEX IF NOT EXISTS idx_volunteer_registrations_creator ON volunteer_registrations(created_by_id);
		CREATE INDEX IF NOT EXISTS idx_supply_donations_grid ON supply_donations(grid_id);
		CREATE INDEX IF NOT EXISTS idx_supply_donations_creator ON supply_donations(created_by_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_actor ON audit_logs(actor_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_request_id ON audit_logs(request_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	db.logger.Info("database schema initialized successfully")
	return nil
}

// InitAuditSchema initializes the audit database schema (audit_logs only, no FK).
// Use for the separate audit database when DATABASE_URL_AUDIT is set.
func (db *DB) InitAuditSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS audit_logs (
			id UUID PRIMARY KEY,
			actor_id UUID,
			actor_role VARCHAR(50) NOT NULL DEFAULT '',
			action VARCHAR(100) NOT NULL,
			resource_kind VARCHAR(100) NOT NULL,
			resource_id UUID,
			details JSONB,
			ip_address VARCHAR(45),
			user_agent TEXT,
			request_id VARCHAR(255),
			timestamp TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_actor ON audit_logs(actor_id);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_action ON audit_logs(action);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_timestamp ON audit_logs(timestamp);
		CREATE INDEX IF NOT EXISTS idx_audit_logs_request_id ON audit_logs(request_id);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	db.logger.Info("audit schema initialized successfully")
	return nil
}
