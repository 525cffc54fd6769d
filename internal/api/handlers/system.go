package handlers

import (
	"database/sql"
	"net/http"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/api/response"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/database"
)

// SystemHandler handles system-level HTTP requests
type SystemHandler struct {
	db *sql.DB
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *sql.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health reports service and database health.
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	result := HealthResponse{Status: "ok", Database: "ok"}
	status := http.StatusOK

	if err := database.HealthCheck(h.db); err != nil {
		result.Status = "degraded"
		result.Database = err.Error()
		status = http.StatusServiceUnavailable
	}

	response.RespondJSON(w, status, result)
}
