package handlers

import (
	"net/http"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/services/announcements"
	"github.com/fieldaid/backend/utils"
)

// ListAnnouncementsHandler lists coordination notices
func ListAnnouncementsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		limit, offset := pagination(r)

		list, err := deps.AnnouncementService.List(r.Context(), act.ID, act.EffectiveRole, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: list})
	}
}

// CreateAnnouncementHandler publishes an announcement
func CreateAnnouncementHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)

		var input announcements.AnnouncementInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		a, err := deps.AnnouncementService.Create(r.Context(), act.ID, act.EffectiveRole, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		_ = utils.WriteCreated(w, a)
	}
}

// UpdateAnnouncementHandler edits an announcement
func UpdateAnnouncementHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		var input announcements.AnnouncementInput
		if err := decodeBody(r, &input); err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		a, err := deps.AnnouncementService.Update(r.Context(), act.ID, act.EffectiveRole, id, input)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: a})
	}
}

// DeleteAnnouncementHandler removes an announcement
func DeleteAnnouncementHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		act := actor(r)
		id, err := pathID(r)
		if err != nil {
			_ = utils.WriteBadRequest(w, err.Error(), nil)
			return
		}

		if err := deps.AnnouncementService.Delete(r.Context(), act.ID, act.EffectiveRole, id); err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		utils.WriteNoContent(w)
	}
}
