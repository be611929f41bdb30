package handlers

import (
	"net/http"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/models"
	"github.com/fieldaid/backend/services/permissions"
	"github.com/fieldaid/backend/utils"
)

// ListPermissionRulesHandler lists the stored permission matrix
func ListPermissionRulesHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)

		var filterRole *models.Role
		if raw := r.URL.Query().Get("role"); raw != "" {
			role := models.Role(raw)
			filterRole = &role
		}

		rules, err := deps.PermissionService.ListRules(r.Context(), act.ID, act.EffectiveRole, filterRole)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: rules})
	}
}

// UpsertPermissionRuleHandler creates or replaces a matrix rule
func UpsertPermissionRuleHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)

		var input permissions.UpsertRuleInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		rule, err := deps.PermissionService.UpsertRule(r.Context(), act.ID, act.EffectiveRole, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: rule})
	}
}

// DeletePermissionRuleHandler removes a matrix rule
func DeletePermissionRuleHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		if err := deps.PermissionService.DeleteRule(r.Context(), act.ID, act.EffectiveRole, id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		utils.WriteNoContent(w)
	}
}
