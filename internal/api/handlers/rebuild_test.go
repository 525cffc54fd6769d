package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/jobs"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/repository"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/testutil"
)

// noopRebuilder completes instantly; blockingRebuilder never finishes until
// released, which keeps a fund busy for conflict tests.
type noopRebuilder struct{}

func (noopRebuilder) Rebuild(req model.RebuildRequest) (model.RebuildResult, error) {
	return model.RebuildResult{Fund: req.Fund, DaysRebuilt: 1, RecordsWritten: 1}, nil
}

type blockingRebuilder struct {
	release chan struct{}
}

func (b *blockingRebuilder) Rebuild(req model.RebuildRequest) (model.RebuildResult, error) {
	<-b.release
	return model.RebuildResult{Fund: req.Fund}, nil
}

func setupRebuildHandler(t *testing.T, rebuilder jobs.Rebuilder) (*RebuildHandler, *jobs.Runner) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	runner := jobs.NewRunner(rebuilder, repository.NewJobRepository(db))
	return NewRebuildHandler(runner), runner
}

func TestRebuildHandler_Submit(t *testing.T) {
	t.Run("accepts a valid submission with 202", func(t *testing.T) {
		handler, runner := setupRebuildHandler(t, noopRebuilder{})

		body := `{"fund": "growth", "startDate": "2024-03-04"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rebuild", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Submit(w, req)
		runner.Wait()

		if w.Code != http.StatusAccepted {
			t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
		}

		var response SubmitRebuildResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Fund != "growth" {
			t.Errorf("Expected fund growth, got %s", response.Fund)
		}
		if response.Status != model.JobStatusPending {
			t.Errorf("Expected pending status, got %s", response.Status)
		}
		if response.JobID == "" {
			t.Error("Expected a job ID")
		}
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		handler, _ := setupRebuildHandler(t, noopRebuilder{})

		req := httptest.NewRequest(http.MethodPost, "/api/rebuild", strings.NewReader("{not json"))
		w := httptest.NewRecorder()

		handler.Submit(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 400 when fund is missing", func(t *testing.T) {
		handler, _ := setupRebuildHandler(t, noopRebuilder{})

		body := `{"startDate": "2024-03-04"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rebuild", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Submit(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on unparseable start date", func(t *testing.T) {
		handler, _ := setupRebuildHandler(t, noopRebuilder{})

		body := `{"fund": "growth", "startDate": "04-03-2024"}`
		req := httptest.NewRequest(http.MethodPost, "/api/rebuild", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Submit(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 409 while the fund is rebuilding", func(t *testing.T) {
		rebuilder := &blockingRebuilder{release: make(chan struct{})}
		handler, runner := setupRebuildHandler(t, rebuilder)

		body := `{"fund": "growth", "startDate": "2024-03-04"}`
		first := httptest.NewRecorder()
		handler.Submit(first, httptest.NewRequest(http.MethodPost, "/api/rebuild", strings.NewReader(body)))
		if first.Code != http.StatusAccepted {
			t.Fatalf("Expected 202 for first submission, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		handler.Submit(second, httptest.NewRequest(http.MethodPost, "/api/rebuild", strings.NewReader(body)))
		if second.Code != http.StatusConflict {
			t.Errorf("Expected 409 for overlapping submission, got %d: %s", second.Code, second.Body.String())
		}

		close(rebuilder.release)
		runner.Wait()
	})
}

func TestRebuildHandler_JobStatus(t *testing.T) {
	t.Run("returns the job for polling", func(t *testing.T) {
		handler, runner := setupRebuildHandler(t, noopRebuilder{})

		submit := httptest.NewRecorder()
		body := `{"fund": "growth", "startDate": "2024-03-04"}`
		handler.Submit(submit, httptest.NewRequest(http.MethodPost, "/api/rebuild", strings.NewReader(body)))

		var submitted SubmitRebuildResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(submit.Body).Decode(&submitted)

		runner.Wait()

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/rebuild/jobs/"+submitted.JobID,
			map[string]string{"jobId": submitted.JobID},
		)
		w := httptest.NewRecorder()

		handler.JobStatus(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var job model.RebuildJob
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&job)

		if job.Status != model.JobStatusCompleted {
			t.Errorf("Expected completed job, got %s", job.Status)
		}
	})

	t.Run("returns 400 for invalid job ID", func(t *testing.T) {
		handler, _ := setupRebuildHandler(t, noopRebuilder{})

		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/rebuild/jobs/not-a-uuid",
			map[string]string{"jobId": "not-a-uuid"},
		)
		w := httptest.NewRecorder()

		handler.JobStatus(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("returns 404 for unknown job", func(t *testing.T) {
		handler, _ := setupRebuildHandler(t, noopRebuilder{})

		id := testutil.MakeID()
		req := testutil.NewRequestWithURLParams(
			http.MethodGet,
			"/api/rebuild/jobs/"+id,
			map[string]string{"jobId": id},
		)
		w := httptest.NewRecorder()

		handler.JobStatus(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", w.Code)
		}
	})
}
