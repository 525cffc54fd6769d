package handlers

import (
	"net/http"
	"time"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/api/response"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/repository"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/validation"
)

// SnapshotHandler handles snapshot history read requests.
type SnapshotHandler struct {
	snapshots *repository.SnapshotRepository
}

// NewSnapshotHandler creates a new SnapshotHandler
func NewSnapshotHandler(snapshots *repository.SnapshotRepository) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// SnapshotDayResponse groups the rows of one trading day.
type SnapshotDayResponse struct {
	Date      string              `json:"date"`
	Positions []model.SnapshotRow `json:"positions"`
}

// History returns persisted snapshot rows for a fund, grouped by date.
//
// Query parameters:
//   - fund: required fund name
//   - start: inclusive start date (YYYY-MM-DD), defaults to 30 days ago
//   - end: inclusive end date (YYYY-MM-DD), defaults to today
func (h *SnapshotHandler) History(w http.ResponseWriter, r *http.Request) {
	fund := r.URL.Query().Get("fund")
	if fund == "" {
		response.RespondError(w, http.StatusBadRequest, "fund parameter is required", nil)
		return
	}

	end := time.Now().UTC()
	if str := r.URL.Query().Get("end"); str != "" {
		parsed, err := validation.ParseDate(str)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid end date", err.Error())
			return
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -30)
	if str := r.URL.Query().Get("start"); str != "" {
		parsed, err := validation.ParseDate(str)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid start date", err.Error())
			return
		}
		start = parsed
	}

	if start.After(end) {
		response.RespondError(w, http.StatusBadRequest, "start date must not be after end date", nil)
		return
	}

	rows, err := h.snapshots.GetSnapshots(fund, start, end)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve snapshots", err.Error())
		return
	}

	// Rows arrive ordered by date then ticker; fold them into one entry per day.
	result := []SnapshotDayResponse{}
	for _, row := range rows {
		key := row.Date.Format("2006-01-02")
		if len(result) == 0 || result[len(result)-1].Date != key {
			result = append(result, SnapshotDayResponse{Date: key})
		}
		last := &result[len(result)-1]
		last.Positions = append(last.Positions, row)
	}

	response.RespondJSON(w, http.StatusOK, result)
}
