package models

import (
	"time"

	"github.com/google/uuid"
)

// Announcement represents a coordination notice published on the console.
type Announcement struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Body        string    `json:"body" db:"body"`
	Pinned      bool      `json:"pinned" db:"pinned"`
	CreatedByID uuid.UUID `json:"created_by_id" db:"created_by_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Announcement model
func (Announcement) TableName() string {
	return "announcements"
}

// Kind implements Ownable.
func (Announcement) Kind() ResourceKind {
	return KindAnnouncements
}

// OwnerIDs implements Ownable.
func (a *Announcement) OwnerIDs() []uuid.UUID {
	return []uuid.UUID{a.CreatedByID}
}

// NewAnnouncement creates a new Announcement instance
func NewAnnouncement(title, body string, createdBy uuid.UUID) *Announcement {
	now := time.Now()
	return &Announcement{
		ID:          uuid.New(),
		Title:       title,
		Body:        body,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
