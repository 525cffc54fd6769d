// Package scheduler triggers periodic snapshot rebuilds so the persisted
// history stays current without manual submissions.
package scheduler

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/apperrors"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/jobs"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/model"
	"github.com/tvermeulen/Portfolio-Rebuild-Backend/internal/repository"
)

// Scheduler submits a rebuild job for every known fund on a cron schedule.
// Each run covers the trailing lookback window, which refreshes recent days
// with late-arriving prices without replaying the full persisted range.
type Scheduler struct {
	cron         *cron.Cron
	runner       *jobs.Runner
	trades       *repository.TradeRepository
	lookbackDays int
}

// New creates a scheduler firing on the given cron expression.
func New(runner *jobs.Runner, trades *repository.TradeRepository, spec string, lookbackDays int) (*Scheduler, error) {
	s := &Scheduler{
		cron:         cron.New(),
		runner:       runner,
		trades:       trades,
		lookbackDays: lookbackDays,
	}
	if _, err := s.cron.AddFunc(spec, s.rebuildAllFunds); err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing scheduled rebuilds.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule. In-flight rebuild jobs keep running; the job
// runner's own Wait covers them at shutdown.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) rebuildAllFunds() {
	funds, err := s.trades.DistinctFunds()
	if err != nil {
		log.Printf("scheduled rebuild: failed to list funds: %v", err)
		return
	}

	start := time.Now().UTC().AddDate(0, 0, -s.lookbackDays)
	for _, fund := range funds {
		job, err := s.runner.Submit(model.RebuildRequest{Fund: fund, StartDate: start})
		if errors.Is(err, apperrors.ErrRebuildInProgress) {
			log.Printf("scheduled rebuild: %s already rebuilding, skipped", fund)
			continue
		}
		if err != nil {
			log.Printf("scheduled rebuild: failed to submit %s: %v", fund, err)
			continue
		}
		log.Printf("scheduled rebuild: submitted job %s for %s", job.ID, fund)
	}
}
