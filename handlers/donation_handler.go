package handlers

import (
	"net/http"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/services/donations"
	"github.com/fieldaid/backend/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListGridDonationsHandler lists a grid's supply donations, donor contact
// fields filtered for the viewer
func ListGridDonationsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		gridID, err := uuid.Parse(chi.URLParam(r, "gridID"))
		if err != nil {
			_ = utils.WriteBadRequest(w, "invalid grid id", nil)
			return
		}
		limit, offset := pagination(r)

		list, err := deps.DonationService.ListByGrid(r.Context(), act.ID, act.EffectiveRole, gridID, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: list})
	}
}

// ListMyDonationsHandler lists the actor's own donations
func ListMyDonationsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		limit, offset := pagination(r)

		list, err := deps.DonationService.ListMine(r.Context(), act.ID, act.EffectiveRole, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: list})
	}
}

// CreateDonationHandler pledges supplies toward a grid
func CreateDonationHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)

		var input donations.CreateDonationInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		donation, err := deps.DonationService.CreateDonation(r.Context(), act.ID, act.EffectiveRole, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		_ = utils.WriteCreated(w, donation)
	}
}

// UpdateDonationHandler updates a donation
func UpdateDonationHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		var input donations.UpdateDonationInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		donation, err := deps.DonationService.UpdateDonation(r.Context(), act.ID, act.EffectiveRole, id, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: donation})
	}
}

// DeleteDonationHandler removes a donation
func DeleteDonationHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		if err := deps.DonationService.DeleteDonation(r.Context(), act.ID, act.EffectiveRole, id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		utils.WriteNoContent(w)
	}
}
