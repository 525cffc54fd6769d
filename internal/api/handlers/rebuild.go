package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/api/response"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/apperrors"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/jobs"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/validation"
)

// RebuildHandler handles rebuild submission and job polling requests.
type RebuildHandler struct {
	runner *jobs.Runner
}

// NewRebuildHandler creates a new RebuildHandler
func NewRebuildHandler(runner *jobs.Runner) *RebuildHandler {
	return &RebuildHandler{runner: runner}
}

// SubmitRebuildRequest represents the rebuild submission body.
type SubmitRebuildRequest struct {
	Fund      string `json:"fund"`
	StartDate string `json:"startDate"`
}

// SubmitRebuildResponse returns the handle of the accepted background job.
type SubmitRebuildResponse struct {
	JobID  string `json:"jobId"`
	Fund   string `json:"fund"`
	Status string `json:"status"`
}

// Submit accepts a rebuild request and starts it as a background job.
// Responds 202 with the job handle; the caller polls JobStatus for the
// outcome. A fund with a rebuild already running yields 409.
func (h *RebuildHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRebuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	validated, err := validation.ValidateRebuildRequest(req.Fund, req.StartDate)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	job, err := h.runner.Submit(model.RebuildRequest{
		Fund:      validated.Fund,
		StartDate: validated.StartDate,
	})
	if errors.Is(err, apperrors.ErrRebuildInProgress) {
		response.RespondError(w, http.StatusConflict, "rebuild already in progress", validated.Fund)
		return
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to submit rebuild", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusAccepted, SubmitRebuildResponse{
		JobID:  job.ID,
		Fund:   job.Fund,
		Status: job.Status,
	})
}

// JobStatus returns the current state of a rebuild job for polling callers.
func (h *RebuildHandler) JobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if err := validation.ValidateUUID(jobID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid job ID", err.Error())
		return
	}

	job, err := h.runner.Status(jobID)
	if errors.Is(err, apperrors.ErrJobNotFound) {
		response.RespondError(w, http.StatusNotFound, "rebuild job not found", jobID)
		return
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve rebuild job", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, job)
}
