package handlers

import (
	"net/http"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/services/volunteers"
	"github.com/fieldaid/backend/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListGridVolunteersHandler lists a grid's volunteer registrations,
// contact fields filtered for the viewer
func ListGridVolunteersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		gridID, err := uuid.Parse(chi.URLParam(r, "gridID"))
		if err != nil {
			_ = utils.WriteBadRequest(w, "invalid grid id", nil)
			return
		}
		limit, offset := pagination(r)

		regs, err := deps.VolunteerService.ListByGrid(r.Context(), act.ID, act.EffectiveRole, gridID, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: regs})
	}
}

// ListMyVolunteersHandler lists the actor's own registrations
func ListMyVolunteersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		limit, offset := pagination(r)

		regs, err := deps.VolunteerService.ListMine(r.Context(), act.ID, act.EffectiveRole, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: regs})
	}
}

// CreateVolunteerHandler signs a volunteer up for a grid
func CreateVolunteerHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)

		var input volunteers.CreateRegistrationInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		reg, err := deps.VolunteerService.CreateRegistration(r.Context(), act.ID, act.EffectiveRole, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		_ = utils.WriteCreated(w, reg)
	}
}

// UpdateVolunteerHandler updates a registration
func UpdateVolunteerHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		var input volunteers.UpdateRegistrationInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		reg, err := deps.VolunteerService.UpdateRegistration(r.Context(), act.ID, act.EffectiveRole, id, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: reg})
	}
}

// DeleteVolunteerHandler removes a registration
func DeleteVolunteerHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		if err := deps.VolunteerService.DeleteRegistration(r.Context(), act.ID, act.EffectiveRole, id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		utils.WriteNoContent(w)
	}
}
