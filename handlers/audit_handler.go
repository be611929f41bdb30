package handlers

import (
	"net/http"
	"time"

	"github.com/fieldaid/backend/app"
	"github.com/fieldaid/backend/utils"
	"github.com/google/uuid"
)

// ListAuditLogsHandler lists audit entries for the admin console. Accepts
// start/end (RFC 3339) and an optional actor_id filter.
func ListAuditLogsHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := pagination(r)
		q := r.URL.Query()

		if raw := q.Get("actor_id"); raw != "" {
			actorID, err := uuid.Parse(raw)
			if err != nil {
				_ = utils.WriteBadRequest(w, "invalid actor_id", nil)
				return
			}
			logs, err := deps.AuditService.GetByActor(r.Context(), actorID, limit, offset)
			if err != nil {
				HandleServiceError(w, err, deps.Logger)
				return
			}
			respondJSON(w, http.StatusOK, SuccessResponse{Data: logs})
			return
		}

		end := time.Now()
		start := end.Add(-24 * time.Hour)
		if raw := q.Get("start"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				_ = utils.WriteBadRequest(w, "invalid start time", nil)
				return
			}
			start = t
		}
		if raw := q.Get("end"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				_ = utils.WriteBadRequest(w, "invalid end time", nil)
				return
			}
			end = t
		}

		logs, err := deps.AuditService.GetByDateRange(r.Context(), start, end, limit, offset)
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Data: logs})
	}
}
