package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited
type AuditAction string

const (
	AuditActionDecisionAllowed AuditAction = "authz_allowed"
	AuditActionDecisionDenied  AuditAction = "authz_denied"
	AuditActionGridCreated     AuditAction = "grid_created"
	AuditActionGridUpdated     AuditAction = "grid_updated"
	AuditActionGridDeleted     AuditAction = "grid_deleted"
	AuditActionRegCreated      AuditAction = "registration_created"
	AuditActionRegUpdated      AuditAction = "registration_updated"
	AuditActionRegDeleted      AuditAction = "registration_deleted"
	AuditActionDonationCreated AuditAction = "donation_created"
	AuditActionDonationUpdated AuditAction = "donation_updated"
	AuditActionDonationDeleted AuditAction = "donation_deleted"
	AuditActionRuleUpserted    AuditAction = "permission_rule_upserted"
	AuditActionRuleDeleted     AuditAction = "permission_rule_deleted"
	AuditActionUserUpdated     AuditAction = "user_updated"
)

// AuditLog represents an audit trail entry
type AuditLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ActorID      *uuid.UUID      `json:"actor_id,omitempty" db:"actor_id"`
	ActorRole    Role            `json:"actor_role" db:"actor_role"`
	Action       AuditAction     `json:"action" db:"action"`
	ResourceKind ResourceKind    `json:"resource_kind" db:"resource_kind"`
	ResourceID   *uuid.UUID      `json:"resource_id,omitempty" db:"resource_id"`
	Details      json.RawMessage `json:"details" db:"details"` // JSONB for flexible metadata
	IPAddress    string          `json:"ip_address" db:"ip_address"`
	UserAgent    string          `json:"user_agent" db:"user_agent"`
	RequestID    string          `json:"request_id" db:"request_id"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(action AuditAction, kind ResourceKind) *AuditLog {
	return &AuditLog{
		ID:           uuid.New(),
		Action:       action,
		ResourceKind: kind,
		Timestamp:    time.Now(),
	}
}

// WithActor sets the actor identity
func (a *AuditLog) WithActor(actorID uuid.UUID, role Role) *AuditLog {
	a.ActorID = &actorID
	a.ActorRole = role
	return a
}

// WithResource sets the resource ID
func (a *AuditLog) WithResource(resourceID uuid.UUID) *AuditLog {
	a.ResourceID = &resourceID
	return a
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequest sets request metadata
func (a *AuditLog) WithRequest(requestID, ipAddress, userAgent string) *AuditLog {
	a.RequestID = requestID
	a.IPAddress = ipAddress
	a.UserAgent = userAgent
	return a
}
