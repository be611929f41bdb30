package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fieldaid/backend/app"
)

// StatusHandler returns application status information
func StatusHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		auditStats := deps.AuditService.GetStats()
		dbStats := deps.DB.Stats()
		response := map[string]interface{}{
			"version":     "0.1.0",
			"environment": deps.Config.Environment,
			"audit": map[string]interface{}{
				"pending_events": auditStats.PendingEvents,
				"buffer_size":    auditStats.BufferSize,
				"worker_count":   auditStats.WorkerCount,
			},
			"database": map[string]interface{}{
				"open_connections": dbStats.OpenConnections,
				"in_use":           dbStats.InUse,
				"idle":             dbStats.Idle,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}
