package handlers

import (
	"net/http"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/services/grids"
	"github.com/fieldaid/backend/utils"
)

// ListGridsHandler lists relief grids, contact fields filtered for the viewer
func ListGridsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		limit, offset := pagination(r)

		list, err := deps.GridService.ListGrids(r.Context(), act.ID, act.EffectiveRole, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: list})
	}
}

// GetGridHandler returns a single grid
func GetGridHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		grid, err := deps.GridService.GetGrid(r.Context(), act.ID, act.EffectiveRole, id)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: grid})
	}
}

// CreateGridHandler creates a new relief grid
func CreateGridHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)

		var input grids.CreateGridInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		grid, err := deps.GridService.CreateGrid(r.Context(), act.ID, act.EffectiveRole, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		_ = utils.WriteCreated(w, grid)
	}
}

// UpdateGridHandler updates a grid
func UpdateGridHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		var input grids.UpdateGridInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		grid, err := deps.GridService.UpdateGrid(r.Context(), act.ID, act.EffectiveRole, id, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: grid})
	}
}

// DeleteGridHandler permanently deletes a grid. Surviving dependents
// require the matching trash-kind grants; otherwise a 409 names the counts.
func DeleteGridHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		if err := deps.GridService.DeleteGrid(r.Context(), act.ID, act.EffectiveRole, id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		utils.WriteNoContent(w)
	}
}
