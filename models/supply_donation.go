package models

import (
	"time"

	"github.com/google/uuid"
)

// DonationStatus represents the lifecycle state of a supply donation.
type DonationStatus string

const (
	DonationStatusPledged   DonationStatus = "pledged"
	DonationStatusInTransit DonationStatus = "in_transit"
	DonationStatusDelivered DonationStatus = "delivered"
	DonationStatusCancelled DonationStatus = "cancelled"
)

// SupplyDonation represents a pledge of supplies toward a grid. Donor phone
// and email are contact fields governed by the donor-contact privacy facet.
type SupplyDonation struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	GridID       uuid.UUID      `json:"grid_id" db:"grid_id"`
	DonorName    string         `json:"donor_name" db:"donor_name"`
	DonorPhone   string         `json:"donor_phone" db:"donor_phone"`
	DonorEmail   string         `json:"donor_email" db:"donor_email"`
	SupplyName   string         `json:"supply_name" db:"supply_name"`
	Quantity     int            `json:"quantity" db:"quantity"`
	Unit         string         `json:"unit" db:"unit"`
	Status       DonationStatus `json:"status" db:"status"`
	DeliveryNote string         `json:"delivery_note" db:"delivery_note"`
	CreatedByID  uuid.UUID      `json:"created_by_id" db:"created_by_id"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the SupplyDonation model
func (SupplyDonation) TableName() string {
	return "supply_donations"
}

// Kind implements Ownable.
func (SupplyDonation) Kind() ResourceKind {
	return KindDonations
}

// OwnerIDs implements Ownable.
func (d *SupplyDonation) OwnerIDs() []uuid.UUID {
	return []uuid.UUID{d.CreatedByID}
}

// SubjectID returns the identity the contact fields belong to.
func (d *SupplyDonation) SubjectID() uuid.UUID {
	return d.CreatedByID
}

// NewSupplyDonation creates a new SupplyDonation instance
func NewSupplyDonation(gridID, createdBy uuid.UUID, supplyName string, quantity int) *SupplyDonation {
	now := time.Now()
	return &SupplyDonation{
		ID:          uuid.New(),
		GridID:      gridID,
		SupplyName:  supplyName,
		Quantity:    quantity,
		Status:      DonationStatusPledged,
		CreatedByID: createdBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
