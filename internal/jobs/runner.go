// Package jobs runs rebuilds as background jobs. A caller submits a rebuild,
// gets a job handle back immediately, and polls for completion; the rebuild
// itself stays synchronous inside its goroutine.
package jobs

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/apperrors"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/repository"
)

// Rebuilder executes one rebuild to completion. Satisfied by rebuild.Driver.
type Rebuilder interface {
	Rebuild(req model.RebuildRequest) (model.RebuildResult, error)
}

// Runner executes rebuild jobs in the background, one at a time per fund.
// Rebuilds for the same fund must never overlap: each one deletes and
// rewrites the fund's snapshot rows day by day, and an interleaved run would
// delete rows out from under the other's in-flight writes. Submissions for a
// fund with a rebuild already running are rejected, not queued.
type Runner struct {
	rebuilder Rebuilder
	jobs      *repository.JobRepository

	mu     sync.Mutex
	active map[string]bool
	wg     sync.WaitGroup
}

// NewRunner creates a job runner over the given rebuilder and job store.
func NewRunner(rebuilder Rebuilder, jobs *repository.JobRepository) *Runner {
	return &Runner{
		rebuilder: rebuilder,
		jobs:      jobs,
		active:    make(map[string]bool),
	}
}

// Submit registers a rebuild job and starts executing it in the background.
// Returns the pending job for the caller to poll, or ErrRebuildInProgress if
// the fund already has a rebuild running.
func (r *Runner) Submit(req model.RebuildRequest) (model.RebuildJob, error) {
	r.mu.Lock()
	if r.active[req.Fund] {
		r.mu.Unlock()
		return model.RebuildJob{}, fmt.Errorf("%w: %s", apperrors.ErrRebuildInProgress, req.Fund)
	}
	r.active[req.Fund] = true
	r.mu.Unlock()

	job := model.RebuildJob{
		ID:        uuid.NewString(),
		Fund:      req.Fund,
		StartDate: req.StartDate,
		Status:    model.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.jobs.Create(job); err != nil {
		r.release(req.Fund)
		return model.RebuildJob{}, err
	}

	r.wg.Add(1)
	go r.run(job.ID, req)

	return job, nil
}

// Status returns the current state of a job.
func (r *Runner) Status(id string) (model.RebuildJob, error) {
	return r.jobs.Get(id)
}

// Wait blocks until all in-flight jobs have finished. Used on shutdown so a
// rebuild is never killed between a day's delete and its rewrite.
func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) run(jobID string, req model.RebuildRequest) {
	defer r.wg.Done()
	defer r.release(req.Fund)
	defer func() {
		if rec := recover(); rec != nil {
			msg := fmt.Sprintf("rebuild panicked: %v", rec)
			log.Printf("job %s: %s", jobID, msg)
			r.setStatus(jobID, model.JobStatusFailed, msg)
		}
	}()

	r.setStatus(jobID, model.JobStatusRunning, "")

	result, err := r.rebuilder.Rebuild(req)
	if err != nil {
		// Partial progress matters: the failed message reports how many days
		// were finished before the collaborator went away.
		msg := fmt.Sprintf("%s after %d days (%d records): %v", model.JobStatusFailed, result.DaysRebuilt, result.RecordsWritten, err)
		r.setStatus(jobID, model.JobStatusFailed, msg)
		return
	}

	msg := result.Summary()
	if n := len(result.Warnings); n > 0 {
		msg = fmt.Sprintf("%s (%d warnings)", msg, n)
	}
	r.setStatus(jobID, model.JobStatusCompleted, msg)
}

func (r *Runner) setStatus(jobID, status, message string) {
	if err := r.jobs.UpdateStatus(jobID, status, message); err != nil {
		log.Printf("failed to update job %s to %s: %v", jobID, status, err)
	}
}

func (r *Runner) release(fund string) {
	r.mu.Lock()
	delete(r.active, fund)
	r.mu.Unlock()
}
