package models

import (
	"time"

	"github.com/google/uuid"
)

// ResourceKind identifies a protected resource type or a cross-cutting
// privacy facet. Free-form key; these are the kinds the system ships with.
type ResourceKind string

const (
	KindGrids         ResourceKind = "grids"
	KindVolunteers    ResourceKind = "volunteer_registrations"
	KindDonations     ResourceKind = "supply_donations"
	KindAnnouncements ResourceKind = "announcements"
	KindUsers         ResourceKind = "users"
	KindPermissions   ResourceKind = "permissions"

	// MyResources is the owner-scoped permission kind. A role holding an
	// action here may perform that action on resources it owns even when
	// the base kind does not grant it.
	KindMyResources ResourceKind = "my_resources"

	// Trash kinds gate cascading permanent deletes of dependent records.
	KindTrashGrids      ResourceKind = "trash_grids"
	KindTrashVolunteers ResourceKind = "trash_volunteer_registrations"
	KindTrashDonations  ResourceKind = "trash_supply_donations"
	KindTrashDiscussion ResourceKind = "trash_discussion_threads"

	// Privacy facets governing contact-field disclosure. Independent of the
	// CRUD permission for the parent kind.
	FacetVolunteerContact ResourceKind = "view_volunteer_contact"
	FacetDonorContact     ResourceKind = "view_donor_contact"
	FacetGridContact      ResourceKind = "view_grid_contact"
)

// TrashKindFor returns the cascade-delete permission kind for a child kind,
// or "" when the child kind has no trash facet.
func TrashKindFor(child ResourceKind) ResourceKind {
	switch child {
	case KindGrids:
		return KindTrashGrids
	case KindVolunteers:
		return KindTrashVolunteers
	case KindDonations:
		return KindTrashDonations
	}
	return ""
}

// PermissionRule is one row of the role/permission matrix: five independent
// capability flags for a (role, resource_kind) pair. There is no implied
// ordering between flags; can_manage does not imply can_edit.
type PermissionRule struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	Role         Role         `json:"role" db:"role"`
	ResourceKind ResourceKind `json:"resource_kind" db:"resource_kind"`
	CanView      bool         `json:"can_view" db:"can_view"`
	CanCreate    bool         `json:"can_create" db:"can_create"`
	CanEdit      bool         `json:"can_edit" db:"can_edit"`
	CanDelete    bool         `json:"can_delete" db:"can_delete"`
	CanManage    bool         `json:"can_manage" db:"can_manage"`
	Description  string       `json:"description" db:"description"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the PermissionRule model
func (PermissionRule) TableName() string {
	return "permission_rules"
}

// Allows returns the flag for the requested action.
func (r *PermissionRule) Allows(action Action) bool {
	switch action {
	case ActionView:
		return r.CanView
	case ActionCreate:
		return r.CanCreate
	case ActionEdit:
		return r.CanEdit
	case ActionDelete:
		return r.CanDelete
	case ActionManage:
		return r.CanManage
	}
	return false
}

// NewPermissionRule creates a new PermissionRule instance
func NewPermissionRule(role Role, kind ResourceKind, description string) *PermissionRule {
	now := time.Now()
	return &PermissionRule{
		ID:           uuid.New(),
		Role:         role,
		ResourceKind: kind,
		Description:  description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
