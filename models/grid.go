package models

import (
	"time"

	"github.com/google/uuid"
)

// GridType categorizes what a relief grid coordinates.
type GridType string

const (
	GridTypeMudDisposal    GridType = "mud_disposal"
	GridTypeManpower       GridType = "manpower"
	GridTypeSupplyStorage  GridType = "supply_storage"
	GridTypeAccommodation  GridType = "accommodation"
	GridTypeFoodArea       GridType = "food_area"
)

// GridStatus represents the lifecycle state of a relief grid.
type GridStatus string

const (
	GridStatusOpen      GridStatus = "open"
	GridStatusClosed    GridStatus = "closed"
	GridStatusCompleted GridStatus = "completed"
	GridStatusPending   GridStatus = "pending"
)

// Ownable is implemented by resources subject to ownership-aware
// authorization. Any returned ID matching the actor counts as ownership.
type Ownable interface {
	Kind() ResourceKind
	OwnerIDs() []uuid.UUID
}

// Grid represents one cell of the relief grid: a physical area needing
// volunteers or supplies, with a reachable on-site contact.
type Grid struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Code            string     `json:"code" db:"code"`
	Name            string     `json:"name" db:"name"`
	GridType        GridType   `json:"grid_type" db:"grid_type"`
	Status          GridStatus `json:"status" db:"status"`
	CenterLat       float64    `json:"center_lat" db:"center_lat"`
	CenterLng       float64    `json:"center_lng" db:"center_lng"`
	VolunteerNeeded int        `json:"volunteer_needed" db:"volunteer_needed"`
	Description     string     `json:"description" db:"description"`

	// On-site contact. Deliberately public for the grid-contact facet so
	// demand-side contacts stay reachable.
	ContactName  string `json:"contact_name" db:"contact_name"`
	ContactPhone string `json:"contact_phone" db:"contact_phone"`
	ContactEmail string `json:"contact_email" db:"contact_email"`

	CreatedByID   uuid.UUID  `json:"created_by_id" db:"created_by_id"`
	GridManagerID *uuid.UUID `json:"grid_manager_id,omitempty" db:"grid_manager_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Grid model
func (Grid) TableName() string {
	return "grids"
}

// Kind implements Ownable.
func (Grid) Kind() ResourceKind {
	return KindGrids
}

// OwnerIDs implements Ownable. The creator and the assigned manager are both
// owner identities.
func (g *Grid) OwnerIDs() []uuid.UUID {
	ids := []uuid.UUID{g.CreatedByID}
	if g.GridManagerID != nil {
		ids = append(ids, *g.GridManagerID)
	}
	return ids
}

// NewGrid creates a new Grid instance
func NewGrid(code, name string, gridType GridType, createdBy uuid.UUID) *Grid {
	now := time.Now()
	return &Grid{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		GridType:    gridType,
		Status:      GridStatusOpen,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
