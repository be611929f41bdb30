package handlers

import (
	"net/http"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/services/users"
	"github.com/fieldaid/backend/utils"
)

// ListUsersHandler lists user accounts for the admin console
func ListUsersHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		limit, offset := pagination(r)

		list, err := deps.UserService.ListUsers(r.Context(), act.ID, act.EffectiveRole, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: list})
	}
}

// GetCurrentUserHandler returns the resolved actor for the request,
// including the effective role the acting-role selector settled on
func GetCurrentUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		if !act.Authenticated {
			_ = utils.WriteForbidden(w, "Access denied")
			return
		}

		user, err := deps.UserService.GetUser(r.Context(), act.ID, act.EffectiveRole, act.ID)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: map[string]interface{}{
			"user":           user,
			"effective_role": act.EffectiveRole,
		}})
	}
}

// GetUserHandler returns one user account
func GetUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		user, err := deps.UserService.GetUser(r.Context(), act.ID, act.EffectiveRole, id)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: user})
	}
}

// UpdateUserHandler updates a user account, including role assignment
func UpdateUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		var input users.UpdateUserInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		user, err := deps.UserService.UpdateUser(r.Context(), act.ID, act.EffectiveRole, id, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: user})
	}
}
