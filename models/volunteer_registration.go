package models

import (
	"time"

	"github.com/google/uuid"
)

// RegistrationStatus represents the lifecycle state of a volunteer signup.
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusArrived   RegistrationStatus = "arrived"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
)

// VolunteerRegistration represents a volunteer signing up to work a grid.
// The phone and email are contact fields governed by the volunteer-contact
// privacy facet.
type VolunteerRegistration struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	GridID         uuid.UUID          `json:"grid_id" db:"grid_id"`
	VolunteerName  string             `json:"volunteer_name" db:"volunteer_name"`
	VolunteerPhone string             `json:"volunteer_phone" db:"volunteer_phone"`
	VolunteerEmail string             `json:"volunteer_email" db:"volunteer_email"`
	Status         RegistrationStatus `json:"status" db:"status"`
	AvailableFrom  *time.Time         `json:"available_from,omitempty" db:"available_from"`
	Notes          string             `json:"notes" db:"notes"`
	CreatedByID    uuid.UUID          `json:"created_by_id" db:"created_by_id"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the VolunteerRegistration model
func (VolunteerRegistration) TableName() string {
	return "volunteer_registrations"
}

// Kind implements Ownable.
func (VolunteerRegistration) Kind() ResourceKind {
	return KindVolunteers
}

// OwnerIDs implements Ownable.
func (v *VolunteerRegistration) OwnerIDs() []uuid.UUID {
	return []uuid.UUID{v.CreatedByID}
}

// SubjectID returns the identity the contact fields belong to. The volunteer
// registered themselves, so the creator is the contact subject.
func (v *VolunteerRegistration) SubjectID() uuid.UUID {
	return v.CreatedByID
}

// NewVolunteerRegistration creates a new VolunteerRegistration instance
func NewVolunteerRegistration(gridID, createdBy uuid.UUID, name string) *VolunteerRegistration {
	now := time.Now()
	return &VolunteerRegistration{
		ID:            uuid.New(),
		GridID:        gridID,
		VolunteerName: name,
		Status:        RegistrationStatusPending,
		CreatedByID:   createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
